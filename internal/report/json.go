package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// jsonRow is the wire shape of a report row.
type jsonRow struct {
	SellerID    string             `json:"seller_id"`
	Name        string             `json:"name"`
	Revenue     json.Number        `json:"revenue"`
	Profit      json.Number        `json:"profit"`
	SalesCount  int                `json:"sales_count"`
	TopProducts []types.TopProduct `json:"top_products"`
	Bonus       json.Number        `json:"bonus"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// RenderJSON renders rows as an indented JSON array followed by a newline.
func RenderJSON(rows []types.ReportRow) ([]byte, error) {
	out := make([]jsonRow, len(rows))
	for i, r := range rows {
		top := r.TopProducts
		if top == nil {
			top = []types.TopProduct{}
		}
		out[i] = jsonRow{
			SellerID:    r.SellerID,
			Name:        r.Name,
			Revenue:     money(r.Revenue),
			Profit:      money(r.Profit),
			SalesCount:  r.SalesCount,
			TopProducts: top,
			Bonus:       money(r.Bonus),
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}
