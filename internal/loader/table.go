// =============================================================================
// Seller Performance Report - Tabular Decoding
// =============================================================================
//
// CSV files and XLSX sheets are both read into a table (headers plus string
// rows) and decoded here, so column mapping, number parsing and error
// reporting behave the same for both formats.
//
// PURCHASE RECORD LAYOUT:
//   Tables are flat: one row per line item. Rows sharing a receipt_id are
//   grouped into one purchase record, in order of first occurrence. The
//   record-level columns (seller_id, total_amount, ...) are taken from the
//   first row of each group. A row with an empty receipt_id is a record of
//   its own; a row with an empty sku contributes no line item.
//
// =============================================================================

package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// Canonical column names.
const (
	colID            = "id"
	colFirstName     = "first_name"
	colLastName      = "last_name"
	colStartDate     = "start_date"
	colPosition      = "position"
	colSKU           = "sku"
	colName          = "name"
	colCategory      = "category"
	colPurchasePrice = "purchase_price"
	colSalePrice     = "sale_price"
	colReceiptID     = "receipt_id"
	colDate          = "date"
	colSellerID      = "seller_id"
	colCustomerID    = "customer_id"
	colTotalAmount   = "total_amount"
	colTotalDiscount = "total_discount"
	colQuantity      = "quantity"
	colDiscount      = "discount"
)

// ErrMissingColumn is wrapped when a required column is absent.
var ErrMissingColumn = errors.New("required column missing")

// RowError reports a value that could not be decoded.
type RowError struct {
	// Source is the file (and sheet) the row came from.
	Source string

	// Row is the 1-based row number in the source, counting headers.
	Row int

	// Column is the canonical column name.
	Column string

	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: column %s: %v", e.Source, e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// table is a header row plus data rows, all as trimmed strings.
type table struct {
	source  string
	headers []string
	rows    [][]string

	// rowNumbers holds the 1-based source row number of each entry in rows.
	rowNumbers []int
}

// columns resolves canonical names to indexes through a header mapping.
type columns struct {
	src     *table
	index   map[string]int
	mapping map[string]string
}

func (t *table) columns(mapping map[string]string, required ...string) (*columns, error) {
	c := &columns{src: t, index: make(map[string]int, len(t.headers)), mapping: mapping}
	for i, h := range t.headers {
		if _, dup := c.index[h]; !dup {
			c.index[h] = i
		}
	}
	for _, name := range required {
		if _, ok := c.index[c.header(name)]; !ok {
			return nil, fmt.Errorf("%s: %w: %s (header %q)", t.source, ErrMissingColumn, name, c.header(name))
		}
	}
	return c, nil
}

func (c *columns) header(name string) string {
	if h, ok := c.mapping[name]; ok && h != "" {
		return strings.ToLower(strings.TrimSpace(h))
	}
	return name
}

func (c *columns) value(row []string, name string) string {
	i, ok := c.index[c.header(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (c *columns) number(row []string, rowNum int, name string, optional bool) (decimal.Decimal, error) {
	raw := c.value(row, name)
	if raw == "" {
		if optional {
			return decimal.Zero, nil
		}
		return decimal.Zero, &RowError{Source: c.src.source, Row: rowNum, Column: name, Err: errors.New("value is empty")}
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &RowError{Source: c.src.source, Row: rowNum, Column: name, Err: err}
	}
	return v, nil
}

func (c *columns) integer(row []string, rowNum int, name string) (int, error) {
	raw := c.value(row, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &RowError{Source: c.src.source, Row: rowNum, Column: name, Err: err}
	}
	return v, nil
}

func (c *columns) required(row []string, rowNum int, name string) (string, error) {
	v := c.value(row, name)
	if v == "" {
		return "", &RowError{Source: c.src.source, Row: rowNum, Column: name, Err: errors.New("value is empty")}
	}
	return v, nil
}

// =============================================================================
// DATASET DECODERS
// =============================================================================

func decodeSellers(t *table, mapping map[string]string) ([]types.Seller, error) {
	cols, err := t.columns(mapping, colID)
	if err != nil {
		return nil, err
	}

	sellers := make([]types.Seller, 0, len(t.rows))
	for i, row := range t.rows {
		id, err := cols.required(row, t.rowNumbers[i], colID)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, types.Seller{
			ID:        id,
			FirstName: cols.value(row, colFirstName),
			LastName:  cols.value(row, colLastName),
			StartDate: cols.value(row, colStartDate),
			Position:  cols.value(row, colPosition),
		})
	}
	return sellers, nil
}

func decodeProducts(t *table, mapping map[string]string) ([]types.Product, error) {
	cols, err := t.columns(mapping, colSKU, colPurchasePrice)
	if err != nil {
		return nil, err
	}

	products := make([]types.Product, 0, len(t.rows))
	for i, row := range t.rows {
		rowNum := t.rowNumbers[i]
		sku, err := cols.required(row, rowNum, colSKU)
		if err != nil {
			return nil, err
		}
		purchase, err := cols.number(row, rowNum, colPurchasePrice, false)
		if err != nil {
			return nil, err
		}
		sale, err := cols.number(row, rowNum, colSalePrice, true)
		if err != nil {
			return nil, err
		}
		products = append(products, types.Product{
			SKU:           sku,
			Name:          cols.value(row, colName),
			Category:      cols.value(row, colCategory),
			PurchasePrice: purchase,
			SalePrice:     sale,
		})
	}
	return products, nil
}

func decodePurchaseRecords(t *table, mapping map[string]string) ([]types.PurchaseRecord, error) {
	cols, err := t.columns(mapping, colSellerID, colTotalAmount, colSKU, colQuantity, colSalePrice)
	if err != nil {
		return nil, err
	}

	var records []types.PurchaseRecord
	groups := make(map[string]int) // receipt id -> index in records

	for i, row := range t.rows {
		rowNum := t.rowNumbers[i]
		receiptID := cols.value(row, colReceiptID)

		idx, seen := groups[receiptID]
		if !seen || receiptID == "" {
			record, err := decodeRecordHeader(cols, row, rowNum)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
			idx = len(records) - 1
			if receiptID != "" {
				groups[receiptID] = idx
			}
		}

		if cols.value(row, colSKU) == "" {
			continue
		}
		item, err := decodeLineItem(cols, row, rowNum)
		if err != nil {
			return nil, err
		}
		records[idx].Items = append(records[idx].Items, item)
	}

	return records, nil
}

func decodeRecordHeader(cols *columns, row []string, rowNum int) (types.PurchaseRecord, error) {
	sellerID, err := cols.required(row, rowNum, colSellerID)
	if err != nil {
		return types.PurchaseRecord{}, err
	}
	total, err := cols.number(row, rowNum, colTotalAmount, false)
	if err != nil {
		return types.PurchaseRecord{}, err
	}
	totalDiscount, err := cols.number(row, rowNum, colTotalDiscount, true)
	if err != nil {
		return types.PurchaseRecord{}, err
	}
	return types.PurchaseRecord{
		ReceiptID:     cols.value(row, colReceiptID),
		Date:          cols.value(row, colDate),
		SellerID:      sellerID,
		CustomerID:    cols.value(row, colCustomerID),
		TotalAmount:   total,
		TotalDiscount: totalDiscount,
	}, nil
}

func decodeLineItem(cols *columns, row []string, rowNum int) (types.LineItem, error) {
	quantity, err := cols.integer(row, rowNum, colQuantity)
	if err != nil {
		return types.LineItem{}, err
	}
	price, err := cols.number(row, rowNum, colSalePrice, false)
	if err != nil {
		return types.LineItem{}, err
	}
	discount, err := cols.number(row, rowNum, colDiscount, true)
	if err != nil {
		return types.LineItem{}, err
	}
	return types.LineItem{
		SKU:       cols.value(row, colSKU),
		Quantity:  quantity,
		SalePrice: price,
		Discount:  discount,
	}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newTable builds a table from raw rows, using the first non-empty row as
// the header and skipping empty rows.
func newTable(source string, raw [][]string) (*table, error) {
	t := &table{source: source}

	for i, row := range raw {
		if isRowEmpty(row) {
			continue
		}
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		if t.headers == nil {
			t.headers = cleanHeaders(cells)
			continue
		}
		t.rows = append(t.rows, cells)
		t.rowNumbers = append(t.rowNumbers, i+1)
	}

	if t.headers == nil {
		return nil, fmt.Errorf("%s: no header row", source)
	}
	return t, nil
}

// cleanHeaders lower-cases headers and strips a UTF-8 byte order mark from
// the first one.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cleaned[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
