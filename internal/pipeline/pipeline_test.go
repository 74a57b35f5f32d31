package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/seller-performance-report/internal/config"
	"github.com/ginjaninja78/seller-performance-report/pkg/logger"
)

const scenarioJSON = `{
  "sellers": [{"id": "s1", "first_name": "A", "last_name": "B"}],
  "products": [{"sku": "P1", "purchase_price": 10, "sale_price": 20}],
  "purchase_records": [
    {"receipt_id": "r1", "seller_id": "s1", "total_amount": 40,
     "items": [{"sku": "P1", "quantity": 2, "sale_price": 20, "discount": 0}]},
    {"receipt_id": "r2", "seller_id": "ghost", "total_amount": 5,
     "items": [{"sku": "P1", "quantity": 1, "sale_price": 5, "discount": 0}]}
  ]
}`

func newConfig(t *testing.T, dataJSON string) *config.MainConfig {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(dataJSON), 0644))

	cfg := &config.MainConfig{}
	cfg.Input.DataFile = path
	cfg.Output.Dir = filepath.Join(dir, "out")
	cfg.Output.FileNameFormat = "report_{uuid}"
	config.ApplyDefaults(cfg)
	require.NoError(t, cfg.Validate())
	return cfg
}

type row struct {
	SellerID    string          `json:"seller_id"`
	Name        string          `json:"name"`
	Revenue     json.Number     `json:"revenue"`
	Profit      json.Number     `json:"profit"`
	SalesCount  int             `json:"sales_count"`
	TopProducts json.RawMessage `json:"top_products"`
	Bonus       json.Number     `json:"bonus"`
}

func TestRun_WritesReport(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)

	result, err := New(cfg, logger.Nop(), Options{}).Run()
	require.NoError(t, err)

	require.NotEmpty(t, result.OutputFile)
	assert.Equal(t, "report_"+result.Stats.RunID+".json", filepath.Base(result.OutputFile))

	content, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, result.Report, content)

	var rows []row
	require.NoError(t, json.Unmarshal(content, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "s1", rows[0].SellerID)
	assert.Equal(t, "A B", rows[0].Name)
	assert.Equal(t, "40.00", rows[0].Revenue.String())
	assert.Equal(t, "20.00", rows[0].Profit.String())
	assert.Equal(t, 1, rows[0].SalesCount)
	assert.JSONEq(t, `[{"sku":"P1","quantity":2}]`, string(rows[0].TopProducts))
	assert.Equal(t, "3.00", rows[0].Bonus.String())

	assert.Equal(t, 1, result.Stats.Sellers)
	assert.Equal(t, 2, result.Stats.Records)
	assert.Equal(t, 2, result.Stats.LineItems)
	assert.Equal(t, 1, result.Stats.SkippedRecords)
	assert.Equal(t, 1, result.Stats.LintWarnings)
	assert.Len(t, result.Issues, 1)
}

func TestRun_DryRun(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)

	result, err := New(cfg, nil, Options{DryRun: true, WriteSummary: true}).Run()
	require.NoError(t, err)
	assert.Empty(t, result.OutputFile)
	assert.Empty(t, result.SummaryFile)
	assert.NotEmpty(t, result.Report)
	assert.False(t, fileExists(cfg.Output.Dir))
}

func TestRun_Stdout(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)
	cfg.Output.Format = config.FormatTable

	var buf bytes.Buffer
	result, err := New(cfg, logger.Nop(), Options{Stdout: &buf}).Run()
	require.NoError(t, err)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, string(result.Report), buf.String())
	assert.Contains(t, buf.String(), "40.00")
}

func TestRun_SummaryAndArchive(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)
	cfg.Output.ArchiveDir = filepath.Join(filepath.Dir(cfg.Output.Dir), "archive")
	cfg.Output.Format = config.FormatXML

	result, err := New(cfg, logger.Nop(), Options{WriteSummary: true}).Run()
	require.NoError(t, err)

	assert.Equal(t, ".xml", filepath.Ext(result.OutputFile))
	require.NotEmpty(t, result.SummaryFile)
	summary, err := os.ReadFile(result.SummaryFile)
	require.NoError(t, err)
	assert.Contains(t, string(summary), result.Stats.RunID)

	assert.True(t, fileExists(filepath.Join(cfg.Output.ArchiveDir, "data.json")))
	assert.True(t, fileExists(cfg.Input.DataFile))
}

func TestRun_Strict(t *testing.T) {
	cfg := newConfig(t, `{
  "sellers": [{"id": "s1"}],
  "products": [{"sku": "P1", "purchase_price": 1}],
  "purchase_records": [{"seller_id": "s1", "total_amount": 1,
    "items": [{"sku": "P1", "quantity": 1, "sale_price": 1, "discount": 150}]}]
}`)

	_, err := New(cfg, logger.Nop(), Options{Strict: true, DryRun: true}).Run()
	assert.ErrorIs(t, err, ErrLintFailed)

	_, err = New(cfg, logger.Nop(), Options{DryRun: true}).Run()
	assert.NoError(t, err)
}

func TestRun_AnalysisError(t *testing.T) {
	cfg := newConfig(t, `{"sellers": [{"id": "s1"}], "products": [], "purchase_records": [{"seller_id": "s1", "total_amount": 1}]}`)

	_, err := New(cfg, logger.Nop(), Options{DryRun: true}).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestRun_LoadError(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)
	cfg.Input.DataFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := New(cfg, logger.Nop(), Options{}).Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "loading dataset")
}

func TestRun_ConfiguredTiers(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)
	pct := decimal.NewFromInt(50)
	cfg.Bonus.FirstPlacePct = &pct

	result, err := New(cfg, logger.Nop(), Options{DryRun: true}).Run()
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "10.00", result.Rows[0].Bonus.StringFixed(2))
}

func TestLint(t *testing.T) {
	cfg := newConfig(t, scenarioJSON)

	lint, stats, err := New(cfg, logger.Nop(), Options{}).Lint()
	require.NoError(t, err)
	assert.True(t, lint.IsValid)
	assert.Equal(t, 1, lint.WarningCount)
	assert.Equal(t, 2, stats.Records)
	assert.NotEmpty(t, stats.RunID)
}

func TestTiersFromConfig(t *testing.T) {
	ten := decimal.NewFromInt(10)
	one := decimal.NewFromInt(1)

	tiers := TiersFromConfig(config.BonusConfig{RunnerUpPct: &ten, LastPlacePct: &one})
	assert.Equal(t, "15", tiers.First.String())
	assert.Equal(t, "10", tiers.RunnerUp.String())
	assert.Equal(t, "1", tiers.Last.String())
	assert.Equal(t, "5", tiers.Default.String())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
