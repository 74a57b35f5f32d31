// =============================================================================
// Seller Performance Report - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, which runs the full pipeline:
// load, lint, analyze, render and write.
//
// COMMAND USAGE:
//   sales-report analyze [flags]
//
// FLAGS:
//   --data        : Combined data file (.json or .xlsx)
//   --sellers     : Sellers file (.csv, .xlsx or .json)
//   --products    : Products file
//   --purchases   : Purchase records file
//   --format      : json, xml, xlsx or table
//   --output-dir  : Directory for the report file
//   --workers     : Goroutines for the accumulation pass
//   --dry-run     : Compute the report without writing anything
//   --stdout      : Print the report instead of writing a file
//   --strict      : Fail when the dataset lint reports errors
//   --summary     : Write a run summary next to the report
//
// Flags override the configuration file and environment.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/seller-performance-report/internal/config"
	"github.com/ginjaninja78/seller-performance-report/internal/pipeline"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFlags are shared by analyze and validate.
var (
	dataFile      string
	sellersFile   string
	productsFile  string
	purchasesFile string
)

var (
	outputFormat string
	outputDir    string
	workers      int
	dryRun       bool
	toStdout     bool
	strict       bool
	writeSummary bool
)

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build the seller performance report",
	Long: `The analyze command loads the dataset, lints it, ranks sellers by profit,
computes bonuses and writes the report.

Lint findings are logged. Records with an unknown seller and items with an
unknown sku are skipped and counted. Use --strict to stop when the lint
reports errors.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addInputFlags(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Report format: json, xml, xlsx or table")
	analyzeCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the report file")
	analyzeCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Goroutines for the accumulation pass (1 = sequential)")
	analyzeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the report without writing anything")
	analyzeCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the report instead of writing a file")
	analyzeCmd.Flags().BoolVar(&strict, "strict", false, "Fail when the dataset lint reports errors")
	analyzeCmd.Flags().BoolVar(&writeSummary, "summary", false, "Write a run summary next to the report")
}

// addInputFlags registers the dataset location flags on cmd.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dataFile, "data", "", "Combined data file (.json or .xlsx)")
	cmd.Flags().StringVar(&sellersFile, "sellers", "", "Sellers file (.csv, .xlsx or .json)")
	cmd.Flags().StringVar(&productsFile, "products", "", "Products file (.csv, .xlsx or .json)")
	cmd.Flags().StringVar(&purchasesFile, "purchases", "", "Purchase records file (.csv, .xlsx or .json)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runAnalyze(cmd *cobra.Command) error {
	cfg := appConfig

	applyInputFlags(cfg)
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if workers != 0 {
		cfg.Processing.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if err := cfg.ValidateInput(); err != nil {
		return err
	}

	opts := pipeline.Options{
		DryRun:       dryRun,
		Strict:       strict,
		WriteSummary: writeSummary,
	}
	if toStdout {
		opts.Stdout = cmd.OutOrStdout()
	}

	result, err := pipeline.New(cfg, log, opts).Run()
	if err != nil {
		return err
	}

	if toStdout {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sellers ranked:  %d\n", len(result.Rows))
	fmt.Fprintf(out, "Skipped records: %d\n", result.Stats.SkippedRecords)
	fmt.Fprintf(out, "Skipped items:   %d\n", result.Stats.SkippedItems)
	fmt.Fprintf(out, "Lint issues:     %d\n", len(result.Issues))
	if result.OutputFile != "" {
		fmt.Fprintf(out, "Report:          %s\n", result.OutputFile)
	}
	if result.SummaryFile != "" {
		fmt.Fprintf(out, "Summary:         %s\n", result.SummaryFile)
	}
	return nil
}

// applyInputFlags copies the dataset flags over the configured input. A
// combined data file given on the command line replaces per-dataset files
// from the configuration and vice versa.
func applyInputFlags(cfg *config.MainConfig) {
	if dataFile != "" {
		cfg.Input.DataFile = dataFile
		cfg.Input.SellersFile, cfg.Input.ProductsFile, cfg.Input.PurchasesFile = "", "", ""
	}
	if sellersFile != "" || productsFile != "" || purchasesFile != "" {
		cfg.Input.DataFile = ""
		if sellersFile != "" {
			cfg.Input.SellersFile = sellersFile
		}
		if productsFile != "" {
			cfg.Input.ProductsFile = productsFile
		}
		if purchasesFile != "" {
			cfg.Input.PurchasesFile = purchasesFile
		}
	}
}
