// =============================================================================
// Seller Performance Report - Shared Types
// =============================================================================
//
// This package contains the dataset and report types shared by every stage of
// the pipeline. Keeping them here avoids import cycles between:
//   - loader     (produces Dataset)
//   - validation (inspects Dataset)
//   - analytics  (consumes Dataset, produces ReportRow)
//   - report     (renders ReportRow)
//
// MONEY:
//   All monetary values are decimal.Decimal so that sums are exact and the
//   report is byte-for-byte reproducible.
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// Seller is a person whose sales are ranked and rewarded.
type Seller struct {
	// ID uniquely identifies the seller. Purchase records refer to it.
	ID string `json:"id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// StartDate and Position are carried through from the source data.
	// The engine does not use them.
	StartDate string `json:"start_date,omitempty"`
	Position  string `json:"position,omitempty"`
}

// Product is a catalogue entry. Only SKU and PurchasePrice take part in the
// profit calculation.
type Product struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name,omitempty"`
	Category      string          `json:"category,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// LineItem is one sku entry within a purchase record.
type LineItem struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	SalePrice decimal.Decimal `json:"sale_price"`

	// Discount is a percentage in the range 0-100.
	Discount decimal.Decimal `json:"discount"`
}

// PurchaseRecord is a single receipt.
type PurchaseRecord struct {
	ReceiptID  string `json:"receipt_id,omitempty"`
	Date       string `json:"date,omitempty"`
	SellerID   string `json:"seller_id"`
	CustomerID string `json:"customer_id,omitempty"`

	// TotalAmount is the amount stated on the receipt. It is summed into the
	// seller's revenue as-is and never cross-checked against the items.
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`

	Items []LineItem `json:"items"`
}

// Dataset bundles the three input collections.
type Dataset struct {
	Sellers         []Seller         `json:"sellers"`
	Products        []Product        `json:"products"`
	PurchaseRecords []PurchaseRecord `json:"purchase_records"`
}

// =============================================================================
// OUTPUT TYPES
// =============================================================================

// TopProduct is a sku and the total quantity a seller sold of it.
type TopProduct struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ReportRow is the finalized summary for one seller. Money fields are
// rounded to two decimal places.
type ReportRow struct {
	SellerID    string
	Name        string
	Revenue     decimal.Decimal
	Profit      decimal.Decimal
	SalesCount  int
	TopProducts []TopProduct
	Bonus       decimal.Decimal
}
