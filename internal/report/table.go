package report

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// RenderTable renders rows as an aligned text table.
func RenderTable(rows []types.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSELLER\tNAME\tREVENUE\tPROFIT\tSALES\tBONUS\tTOP PRODUCTS")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			i+1,
			r.SellerID,
			r.Name,
			r.Revenue.StringFixed(2),
			r.Profit.StringFixed(2),
			r.SalesCount,
			r.Bonus.StringFixed(2),
			formatTopProducts(r.TopProducts),
		)
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return buf.Bytes(), nil
}
