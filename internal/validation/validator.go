// =============================================================================
// Seller Performance Report - Dataset Validation
// =============================================================================
//
// This module lints a loaded dataset before analysis. The analytics engine
// tolerates every problem reported here (unknown sellers and skus are
// skipped, duplicates resolve to the last entry), so lint findings never
// stop a run on their own. They exist so that operators can see why a
// seller's numbers look the way they do.
//
// CHECKS:
//   - Seller-level:  empty or duplicate seller ids
//   - Product-level: empty or duplicate skus, negative purchase prices
//   - Record-level:  unknown seller, no line items
//   - Item-level:    unknown sku, quantity below 1, negative sale price,
//                    discount outside 0-100
//
// SEVERITY:
//   - "warning": the engine handles it by skipping or resolving
//   - "error":   the value is accepted but the resulting numbers are
//                unlikely to be meaningful
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rules reported by the validator.
const (
	RuleRequired       = "required"
	RuleDuplicate      = "duplicate"
	RuleUnknownSeller  = "unknown_seller"
	RuleUnknownProduct = "unknown_product"
	RuleEmptyRecord    = "empty_record"
	RuleQuantity       = "quantity"
	RuleNegativeAmount = "negative_amount"
	RuleDiscountRange  = "discount_range"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single lint finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Collection is "sellers", "products" or "purchase_records".
	Collection string

	// Index is the 0-based position in the collection.
	Index int

	// ItemIndex is the 0-based line item position, or -1 for record-level
	// findings.
	ItemIndex int

	// Field is the offending field name.
	Field string

	// Value is the offending value.
	Value string

	// Rule is the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	location := fmt.Sprintf("%s[%d]", e.Collection, e.Index)
	if e.ItemIndex >= 0 {
		location += fmt.Sprintf(".items[%d]", e.ItemIndex)
	}
	return fmt.Sprintf("[%s] %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		location,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no findings of error severity.
	IsValid bool

	// Errors contains all findings, warnings included, in dataset order.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning invalidate the result.
	// Default: false
	TreatWarningsAsErrors bool
}

// Validator lints datasets.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a new Validator with default options.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithOptions creates a new Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate lints data with default options and returns the findings.
func Validate(data *types.Dataset) []*ValidationError {
	return NewValidator().ValidateAll(data).Errors
}

// ValidateAll lints data and returns a detailed result.
func (v *Validator) ValidateAll(data *types.Dataset) *ValidationResult {
	result := &ValidationResult{IsValid: true, Errors: make([]*ValidationError, 0)}
	if data == nil {
		return result
	}

	sellers := v.validateSellers(data.Sellers, result)
	products := v.validateProducts(data.Products, result)

	for i := range data.PurchaseRecords {
		v.validateRecord(i, &data.PurchaseRecords[i], sellers, products, result)
	}

	return result
}

func (v *Validator) add(result *ValidationResult, err *ValidationError) {
	result.Errors = append(result.Errors, err)
	if err.Severity == SeverityError {
		result.ErrorCount++
		result.IsValid = false
		return
	}
	result.WarningCount++
	if v.options.TreatWarningsAsErrors {
		result.IsValid = false
	}
}

func (v *Validator) validateSellers(sellers []types.Seller, result *ValidationResult) map[string]bool {
	seen := make(map[string]bool, len(sellers))
	for i, s := range sellers {
		switch {
		case s.ID == "":
			v.add(result, &ValidationError{
				Severity: SeverityError, Collection: "sellers", Index: i, ItemIndex: -1,
				Field: "id", Rule: RuleRequired,
				Message: "Seller id is empty",
			})
		case seen[s.ID]:
			v.add(result, &ValidationError{
				Severity: SeverityWarning, Collection: "sellers", Index: i, ItemIndex: -1,
				Field: "id", Value: s.ID, Rule: RuleDuplicate,
				Message: "Duplicate seller id; sales are credited to the last seller with this id",
			})
		}
		seen[s.ID] = true
	}
	return seen
}

func (v *Validator) validateProducts(products []types.Product, result *ValidationResult) map[string]bool {
	seen := make(map[string]bool, len(products))
	for i, p := range products {
		switch {
		case p.SKU == "":
			v.add(result, &ValidationError{
				Severity: SeverityError, Collection: "products", Index: i, ItemIndex: -1,
				Field: "sku", Rule: RuleRequired,
				Message: "Product sku is empty",
			})
		case seen[p.SKU]:
			v.add(result, &ValidationError{
				Severity: SeverityWarning, Collection: "products", Index: i, ItemIndex: -1,
				Field: "sku", Value: p.SKU, Rule: RuleDuplicate,
				Message: "Duplicate sku; the last product's purchase price is used",
			})
		}
		seen[p.SKU] = true

		if p.PurchasePrice.IsNegative() {
			v.add(result, &ValidationError{
				Severity: SeverityError, Collection: "products", Index: i, ItemIndex: -1,
				Field: "purchase_price", Value: p.PurchasePrice.String(), Rule: RuleNegativeAmount,
				Message: "Purchase price is negative",
			})
		}
	}
	return seen
}

var hundred = decimal.NewFromInt(100)

func (v *Validator) validateRecord(i int, rec *types.PurchaseRecord, sellers, products map[string]bool, result *ValidationResult) {
	if !sellers[rec.SellerID] {
		v.add(result, &ValidationError{
			Severity: SeverityWarning, Collection: "purchase_records", Index: i, ItemIndex: -1,
			Field: "seller_id", Value: rec.SellerID, Rule: RuleUnknownSeller,
			Message: "Unknown seller; the record is skipped",
		})
	}
	if len(rec.Items) == 0 {
		v.add(result, &ValidationError{
			Severity: SeverityWarning, Collection: "purchase_records", Index: i, ItemIndex: -1,
			Field: "items", Rule: RuleEmptyRecord,
			Message: "Record has no line items; it counts as a sale with no revenue",
		})
	}

	for j, item := range rec.Items {
		if !products[item.SKU] {
			v.add(result, &ValidationError{
				Severity: SeverityWarning, Collection: "purchase_records", Index: i, ItemIndex: j,
				Field: "sku", Value: item.SKU, Rule: RuleUnknownProduct,
				Message: "Unknown sku; the item is skipped",
			})
		}
		if item.Quantity < 1 {
			v.add(result, &ValidationError{
				Severity: SeverityError, Collection: "purchase_records", Index: i, ItemIndex: j,
				Field: "quantity", Value: fmt.Sprint(item.Quantity), Rule: RuleQuantity,
				Message: "Quantity must be at least 1",
			})
		}
		if item.SalePrice.IsNegative() {
			v.add(result, &ValidationError{
				Severity: SeverityError, Collection: "purchase_records", Index: i, ItemIndex: j,
				Field: "sale_price", Value: item.SalePrice.String(), Rule: RuleNegativeAmount,
				Message: "Sale price is negative",
			})
		}
		if item.Discount.IsNegative() || item.Discount.GreaterThan(hundred) {
			v.add(result, &ValidationError{
				Severity: SeverityError, Collection: "purchase_records", Index: i, ItemIndex: j,
				Field: "discount", Value: item.Discount.String(), Rule: RuleDiscountRange,
				Message: "Discount must be between 0 and 100 percent",
			})
		}
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation errors to a text file, replacing any
// existing content.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Validation run at %s\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatErrors(errors))
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
