// =============================================================================
// Seller Performance Report - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which loads and lints the
// dataset without analyzing it.
//
// COMMAND USAGE:
//   sales-report validate [--data FILE | --sellers F --products F --purchases F]
//
// EXIT STATUS:
//   Non-zero when the lint reports errors, or warnings with --warnings-as-errors.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/seller-performance-report/internal/pipeline"
	"github.com/ginjaninja78/seller-performance-report/internal/validation"
)

var (
	warningsAsErrors bool
	errorLog         string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and lint the dataset without building a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addInputFlags(validateCmd)

	validateCmd.Flags().BoolVar(&warningsAsErrors, "warnings-as-errors", false, "Fail on lint warnings too")
	validateCmd.Flags().StringVar(&errorLog, "error-log", "", "Also write the findings to this file")
}

func runValidate(cmd *cobra.Command) error {
	cfg := appConfig
	applyInputFlags(cfg)
	if err := cfg.ValidateInput(); err != nil {
		return err
	}

	lint, stats, err := pipeline.New(cfg, log, pipeline.Options{}).Lint()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sellers: %d  Products: %d  Purchase records: %d  Line items: %d\n",
		stats.Sellers, stats.Products, stats.Records, stats.LineItems)
	fmt.Fprint(out, validation.FormatErrors(lint.Errors))
	if len(lint.Errors) == 0 {
		fmt.Fprintln(out)
	}

	if errorLog != "" {
		if err := validation.WriteErrorLog(lint.Errors, errorLog); err != nil {
			return err
		}
	}

	if lint.ErrorCount > 0 || (warningsAsErrors && lint.WarningCount > 0) {
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)", lint.ErrorCount, lint.WarningCount)
	}
	return nil
}
