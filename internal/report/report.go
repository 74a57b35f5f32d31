// =============================================================================
// Seller Performance Report - Report Rendering
// =============================================================================
//
// This module renders finalized report rows. Rows arrive already ranked and
// rounded; rendering never reorders them.
//
// FORMATS:
//   - json  : array of objects with seller_id, name, revenue, profit,
//             sales_count, top_products and bonus. Money is a number with
//             exactly two decimals.
//   - xml   : <sellers_report> with one <seller n="..."> per row
//   - xlsx  : one "report" sheet, header row plus one row per seller
//   - table : aligned plain text for terminals
//
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/seller-performance-report/internal/config"
	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// ErrUnknownFormat is returned for output formats with no renderer.
var ErrUnknownFormat = errors.New("unknown report format")

// Render renders rows in the given format.
func Render(rows []types.ReportRow, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		return RenderJSON(rows)
	case config.FormatXML:
		return RenderXML(rows, DefaultXMLOptions())
	case config.FormatXLSX:
		return RenderXLSX(rows)
	case config.FormatTable:
		return RenderTable(rows)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write renders rows and writes them to w.
func Write(w io.Writer, rows []types.ReportRow, format string) error {
	out, err := Render(rows, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case config.FormatTable:
		return ".txt"
	default:
		return "." + strings.ToLower(format)
	}
}

// formatTopProducts renders top products as "SKU x qty" pairs.
func formatTopProducts(top []types.TopProduct) string {
	parts := make([]string, len(top))
	for i, p := range top {
		parts[i] = fmt.Sprintf("%s x%d", p.SKU, p.Quantity)
	}
	return strings.Join(parts, ", ")
}
