package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataJSON = `{
  "sellers": [
    {"id": "s1", "first_name": "Ann", "last_name": "Lee"},
    {"id": "s2", "first_name": "Bob", "last_name": "Ray"}
  ],
  "products": [{"sku": "P1", "purchase_price": 10}],
  "purchase_records": [
    {"seller_id": "s1", "total_amount": 40, "items": [{"sku": "P1", "quantity": 2, "sale_price": 20, "discount": 0}]},
    {"seller_id": "s2", "total_amount": 15, "items": [{"sku": "P1", "quantity": 1, "sale_price": 15, "discount": 0}]}
  ]
}`

// execute runs the CLI with fresh flag values and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cfgFile, envFile, verbose = defaultConfigFile, defaultEnvFile, false
	dataFile, sellersFile, productsFile, purchasesFile = "", "", "", ""
	outputFormat, outputDir, workers = "", "", 0
	dryRun, toStdout, strict, writeSummary = false, false, false, false
	warningsAsErrors, errorLog = false, ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeData(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyze_Stdout(t *testing.T) {
	data := writeData(t, dataJSON)

	stdout, _, err := execute(t, "analyze", "--data", data, "--stdout", "--workers", "2")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "s1", rows[0]["seller_id"])
	assert.Equal(t, "Ann Lee", rows[0]["name"])
	assert.Equal(t, float64(3), rows[0]["bonus"])
	assert.Equal(t, "s2", rows[1]["seller_id"])
}

func TestAnalyze_WritesFile(t *testing.T) {
	data := writeData(t, dataJSON)
	outDir := filepath.Join(t.TempDir(), "reports")

	stdout, _, err := execute(t, "analyze", "--data", data, "--output-dir", outDir, "--format", "xml", "--summary")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sellers ranked:  2")
	assert.Contains(t, stdout, "Report:")
	assert.Contains(t, stdout, "Summary:")

	matches, err := filepath.Glob(filepath.Join(outDir, "seller_report_*.xml"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestAnalyze_DryRun(t *testing.T) {
	data := writeData(t, dataJSON)
	outDir := filepath.Join(t.TempDir(), "reports")

	_, _, err := execute(t, "analyze", "--data", data, "--output-dir", outDir, "--dry-run")
	require.NoError(t, err)
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAnalyze_Errors(t *testing.T) {
	_, _, err := execute(t, "analyze")
	assert.ErrorContains(t, err, "set data_file")

	data := writeData(t, dataJSON)
	_, _, err = execute(t, "analyze", "--data", data, "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported output format")

	_, _, err = execute(t, "analyze", "--data", data, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestAnalyze_VerboseLogs(t *testing.T) {
	data := writeData(t, dataJSON)

	_, stderr, err := execute(t, "analyze", "--data", data, "--dry-run", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Configuration loaded")
	assert.Contains(t, stderr, "Run complete")
}

func TestValidate(t *testing.T) {
	data := writeData(t, dataJSON)

	stdout, _, err := execute(t, "validate", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sellers: 2")
	assert.Contains(t, stdout, "No validation errors.")
}

func TestValidate_Findings(t *testing.T) {
	data := writeData(t, `{
  "sellers": [{"id": "s1"}],
  "products": [{"sku": "P1", "purchase_price": 1}],
  "purchase_records": [{"seller_id": "ghost", "total_amount": 1, "items": [{"sku": "P1", "quantity": 0, "sale_price": 1}]}]
}`)
	logPath := filepath.Join(t.TempDir(), "lint.txt")

	stdout, _, err := execute(t, "validate", "--data", data, "--error-log", logPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s), 1 warning(s)")
	assert.Contains(t, stdout, "Unknown seller")
	assert.FileExists(t, logPath)
}

func TestValidate_WarningsAsErrors(t *testing.T) {
	data := writeData(t, `{
  "sellers": [{"id": "s1"}, {"id": "s1"}],
  "products": [{"sku": "P1", "purchase_price": 1}],
  "purchase_records": [{"seller_id": "s1", "total_amount": 1, "items": [{"sku": "P1", "quantity": 1, "sale_price": 1}]}]
}`)

	_, _, err := execute(t, "validate", "--data", data)
	require.NoError(t, err)

	_, _, err = execute(t, "validate", "--data", data, "--warnings-as-errors")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version", "--config", "/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Seller Performance Report")
	assert.Contains(t, stdout, "Version:    "+Version)
}
