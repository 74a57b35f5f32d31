// =============================================================================
// Seller Performance Report - Main Entry Point
// =============================================================================
//
// USAGE:
//   sales-report analyze   - Build the seller performance report
//   sales-report validate  - Lint the dataset without building a report
//   sales-report version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/analytics  : revenue and bonus policies, aggregation engine
//   - internal/loader     : JSON, CSV and XLSX dataset loading
//   - internal/validation : dataset lint
//   - internal/report     : JSON, XML, XLSX and table rendering
//   - internal/pipeline   : one end-to-end run
//   - pkg/                : logging and file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/seller-performance-report/cmd"
)

func main() {
	cmd.Execute()
}
