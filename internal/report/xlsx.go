package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// SheetReport is the name of the sheet RenderXLSX writes.
const SheetReport = "report"

var xlsxHeaders = []interface{}{
	"rank", "seller_id", "name", "revenue", "profit", "sales_count", "top_products", "bonus",
}

// RenderXLSX renders rows as a workbook with a single sheet. Money cells
// are numeric with a two-decimal number format.
func RenderXLSX(rows []types.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetReport); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := f.SetSheetRow(SheetReport, "A1", &xlsxHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{
			i + 1,
			row.SellerID,
			row.Name,
			row.Revenue.Round(2).InexactFloat64(),
			row.Profit.Round(2).InexactFloat64(),
			row.SalesCount,
			formatTopProducts(row.TopProducts),
			row.Bonus.Round(2).InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetReport, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		last := len(rows) + 1
		for _, col := range []string{"D", "E", "H"} {
			if err := f.SetCellStyle(SheetReport, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, last), moneyStyle); err != nil {
				return nil, fmt.Errorf("failed to style column %s: %w", col, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
