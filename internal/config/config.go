// =============================================================================
// Seller Performance Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// SOURCES (later sources win):
//   1. Built-in defaults
//   2. The YAML config file (config.yaml by default)
//   3. A .env file, if present, and SALES_REPORT_* environment variables
//
// A missing config file is not an error when the caller allows it; the
// defaults plus environment are then used as-is.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "SALES_REPORT_"

// Supported output formats.
const (
	FormatJSON  = "json"
	FormatXML   = "xml"
	FormatXLSX  = "xlsx"
	FormatTable = "table"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// Input describes where the three datasets come from.
	Input InputConfig `yaml:"input"`

	// Output describes how and where the report is written.
	Output OutputConfig `yaml:"output"`

	// Bonus holds the tier percentages of the default bonus policy.
	Bonus BonusConfig `yaml:"bonus"`

	// Processing tunes the analysis run.
	Processing ProcessingConfig `yaml:"processing"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" or "console".
	// Default: "console"
	LogFormat string `yaml:"log_format"`
}

// InputConfig locates the input datasets. Either DataFile or all three of
// SellersFile, ProductsFile and PurchasesFile must be set.
type InputConfig struct {
	// DataFile is a combined dataset: a JSON document with "sellers",
	// "products" and "purchase_records" keys, or an XLSX workbook with
	// sheets of the same names.
	DataFile string `yaml:"data_file"`

	// Per-dataset files. The format is chosen by extension (.json, .csv, .xlsx).
	SellersFile   string `yaml:"sellers_file"`
	ProductsFile  string `yaml:"products_file"`
	PurchasesFile string `yaml:"purchases_file"`

	// CSV contains settings for parsing CSV inputs.
	CSV CSVSettings `yaml:"csv"`

	// Columns maps each dataset's canonical field names to the headers used
	// in CSV and XLSX inputs. Unmapped fields use their canonical name.
	Columns ColumnMappings `yaml:"columns"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" or "tab", ";"
	// Default: ","
	Delimiter string `yaml:"delimiter"`
}

// ColumnMappings holds one header mapping per dataset.
//
// Example:
//
//	columns:
//	  sellers:
//	    id: seller_code
//	  purchase_records:
//	    total_amount: receipt_total
type ColumnMappings struct {
	Sellers         map[string]string `yaml:"sellers"`
	Products        map[string]string `yaml:"products"`
	PurchaseRecords map[string]string `yaml:"purchase_records"`
}

// OutputConfig describes the report output.
type OutputConfig struct {
	// Dir is where report files are written.
	// Default: "./output"
	Dir string `yaml:"dir"`

	// Format is one of json, xml, xlsx, table.
	// Default: "json"
	Format string `yaml:"format"`

	// FileNameFormat names the report file. Placeholders:
	//   {uuid}      - the run id
	//   {timestamp} - current time (YYYYMMDD_HHMMSS)
	//   {format}    - the output format
	// The extension for the format is appended when missing.
	// Default: "seller_report_{timestamp}"
	FileNameFormat string `yaml:"file_name_format"`

	// ArchiveDir, when set, receives a copy of every input file after a
	// successful run.
	ArchiveDir string `yaml:"archive_dir"`
}

// BonusConfig holds bonus tier percentages (0-100).
type BonusConfig struct {
	FirstPlacePct *decimal.Decimal `yaml:"first_place_pct"`
	RunnerUpPct   *decimal.Decimal `yaml:"runner_up_pct"`
	LastPlacePct  *decimal.Decimal `yaml:"last_place_pct"`
	DefaultPct    *decimal.Decimal `yaml:"default_pct"`
}

// ProcessingConfig tunes the engine.
type ProcessingConfig struct {
	// Workers is the number of goroutines for the accumulation pass.
	// Set to 1 for sequential processing.
	// Default: 1
	Workers int `yaml:"workers"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration at configPath. When allowMissing is true and
// the file does not exist, defaults are used instead.
func Load(configPath string, allowMissing bool) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && allowMissing:
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	ApplyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ApplyDefaults sets default values for any unset configuration options.
func ApplyDefaults(config *MainConfig) {
	if config.Input.CSV.Delimiter == "" {
		config.Input.CSV.Delimiter = ","
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "./output"
	}
	if config.Output.Format == "" {
		config.Output.Format = FormatJSON
	}
	if config.Output.FileNameFormat == "" {
		config.Output.FileNameFormat = "seller_report_{timestamp}"
	}
	if config.Processing.Workers == 0 {
		config.Processing.Workers = 1
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
}

// Validate checks option values. It does not touch the filesystem.
func (c *MainConfig) Validate() error {
	switch c.Output.Format {
	case FormatJSON, FormatXML, FormatXLSX, FormatTable:
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}

	if c.Processing.Workers < 1 {
		return fmt.Errorf("processing.workers must be at least 1, got %d", c.Processing.Workers)
	}

	for name, pct := range map[string]*decimal.Decimal{
		"first_place_pct": c.Bonus.FirstPlacePct,
		"runner_up_pct":   c.Bonus.RunnerUpPct,
		"last_place_pct":  c.Bonus.LastPlacePct,
		"default_pct":     c.Bonus.DefaultPct,
	} {
		if pct != nil && (pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100))) {
			return fmt.Errorf("bonus.%s must be between 0 and 100, got %s", name, pct)
		}
	}

	return nil
}

// ValidateInput checks that the input section names a complete dataset.
// Commands call it after flags have been merged in.
func (c *MainConfig) ValidateInput() error {
	in := c.Input
	if in.DataFile != "" {
		return nil
	}
	var missing []string
	if in.SellersFile == "" {
		missing = append(missing, "sellers_file")
	}
	if in.ProductsFile == "" {
		missing = append(missing, "products_file")
	}
	if in.PurchasesFile == "" {
		missing = append(missing, "purchases_file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("input: set data_file or all of sellers_file, products_file, purchases_file (missing %s)",
			strings.Join(missing, ", "))
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// LoadEnvFile loads variables from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// applyEnvOverrides copies SALES_REPORT_* variables over the file values.
func applyEnvOverrides(config *MainConfig) error {
	strs := map[string]*string{
		"DATA_FILE":      &config.Input.DataFile,
		"SELLERS_FILE":   &config.Input.SellersFile,
		"PRODUCTS_FILE":  &config.Input.ProductsFile,
		"PURCHASES_FILE": &config.Input.PurchasesFile,
		"CSV_DELIMITER":  &config.Input.CSV.Delimiter,
		"OUTPUT_DIR":     &config.Output.Dir,
		"OUTPUT_FORMAT":  &config.Output.Format,
		"ARCHIVE_DIR":    &config.Output.ArchiveDir,
		"LOG_LEVEL":      &config.LogLevel,
		"LOG_FORMAT":     &config.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		config.Processing.Workers = n
	}

	return nil
}
