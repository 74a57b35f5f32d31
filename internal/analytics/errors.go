package analytics

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Analyze matches exactly one of these
// via errors.Is.
var (
	// ErrMissingInput is returned when no dataset is supplied.
	ErrMissingInput = errors.New("analytics: dataset not provided")

	// ErrEmptyCollection is wrapped by the per-collection errors below.
	ErrEmptyCollection = errors.New("analytics: empty collection")

	// ErrMissingPolicy is wrapped by the per-policy errors below.
	ErrMissingPolicy = errors.New("analytics: policy not provided")
)

// Per-field errors. Callers that only care about the kind can test against
// ErrEmptyCollection or ErrMissingPolicy instead.
var (
	ErrEmptySellers         = fmt.Errorf("%w: sellers", ErrEmptyCollection)
	ErrEmptyProducts        = fmt.Errorf("%w: products", ErrEmptyCollection)
	ErrEmptyPurchaseRecords = fmt.Errorf("%w: purchase_records", ErrEmptyCollection)

	ErrMissingBonusPolicy   = fmt.Errorf("%w: bonus", ErrMissingPolicy)
	ErrMissingRevenuePolicy = fmt.Errorf("%w: revenue", ErrMissingPolicy)
)
