package loader

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of a combined workbook.
const (
	SheetSellers         = "sellers"
	SheetProducts        = "products"
	SheetPurchaseRecords = "purchase_records"
)

// workbook wraps an open XLSX file.
type workbook struct {
	path string
	f    *excelize.File
}

func openWorkbook(path string) (*workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &workbook{path: path, f: f}, nil
}

func (w *workbook) Close() error {
	return w.f.Close()
}

// sheet reads the named sheet into a table. An empty name selects the first
// sheet.
func (w *workbook) sheet(name string) (*table, error) {
	if name == "" {
		name = w.f.GetSheetName(0)
		if name == "" {
			return nil, fmt.Errorf("%s: workbook has no sheets", w.path)
		}
	} else if idx, err := w.f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%s: sheet %q not found", w.path, name)
	}

	rows, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", w.path, name, err)
	}

	return newTable(fmt.Sprintf("%s[%s]", w.path, name), rows)
}

// readXLSX reads the first sheet of a single-dataset workbook.
func readXLSX(path string) (*table, error) {
	wb, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return wb.sheet("")
}
