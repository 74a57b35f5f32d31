// =============================================================================
// Seller Performance Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sales-report)
//   ├── analyzeCmd  (sales-report analyze)
//   ├── validateCmd (sales-report validate)
//   └── versionCmd  (sales-report version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --env-file, --verbose)
//   2. Loading the .env file and the YAML configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/seller-performance-report/internal/config"
	"github.com/ginjaninja78/seller-performance-report/pkg/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

// cfgFile holds the path to the main configuration file.
// A missing file is only an error when the path was given explicitly.
var cfgFile string

// envFile is loaded into the environment before the configuration.
var envFile string

// verbose forces debug logging.
var verbose bool

// appConfig and log are set up before any subcommand runs.
var (
	appConfig *config.MainConfig
	log       *logger.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sales-report",
	Short: "Seller performance report - rank sellers by profit and compute bonuses",
	Long: `sales-report reads sellers, products and purchase records, computes each
seller's revenue, profit, sales count and best-selling products, ranks the
sellers by profit and assigns bonuses by rank.

Inputs can be a combined JSON document or workbook, or one CSV, XLSX or JSON
file per dataset. The report is written as JSON, XML, XLSX or a text table.

Example Usage:
  sales-report analyze --data data.json              # JSON report in ./output
  sales-report analyze --data data.json --stdout     # print the report
  sales-report analyze --sellers s.csv --products p.csv --purchases r.csv --format xlsx
  sales-report validate --data data.json             # lint the dataset only`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the environment file and configuration and builds the logger.
func setup(cmd *cobra.Command) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load(cfgFile, cfgFile == defaultConfigFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	appConfig = cfg
	log = logger.New(logger.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	log.Debugf("Configuration loaded from %s", cfgFile)

	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		defaultEnvFile,
		"Path to a .env file with SALES_REPORT_* overrides",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
