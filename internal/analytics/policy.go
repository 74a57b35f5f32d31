package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// RevenueFunc returns the realized revenue of one line item. It must be pure:
// the engine may call it any number of times for the same item.
type RevenueFunc func(item types.LineItem, product types.Product) decimal.Decimal

// BonusFunc returns the raw bonus for the seller at zero-based position index
// of a profit-descending ranking of total sellers. The engine rounds the
// result to two decimal places.
type BonusFunc func(index, total int, seller SellerStats) decimal.Decimal

// Policies groups the two pluggable calculations.
type Policies struct {
	Revenue RevenueFunc
	Bonus   BonusFunc
}

// DefaultPolicies returns the simple revenue policy and the profit-tier bonus.
func DefaultPolicies() Policies {
	return Policies{
		Revenue: CalculateSimpleRevenue,
		Bonus:   CalculateBonusByProfit,
	}
}

// SellerStats is the read-only view of a seller's accumulated totals handed
// to the bonus policy.
type SellerStats struct {
	ID         string
	Name       string
	Revenue    decimal.Decimal
	Profit     decimal.Decimal
	SalesCount int
}

// CalculateSimpleRevenue computes salePrice * quantity * (1 - discount/100),
// rounded to two decimal places. The product is not consulted.
func CalculateSimpleRevenue(item types.LineItem, _ types.Product) decimal.Decimal {
	multiplier := one.Sub(item.Discount.Div(hundred))
	return item.SalePrice.
		Mul(decimal.NewFromInt(int64(item.Quantity))).
		Mul(multiplier).
		Round(2)
}

// =============================================================================
// TIERED BONUS
// =============================================================================

// Tiers holds bonus percentages for each ranking band. Bands are checked in
// the order First, RunnerUp, Last, Default and the first match wins, so a
// single seller is paid the First rate.
type Tiers struct {
	// First applies to rank 1 (index 0).
	First decimal.Decimal

	// RunnerUp applies to ranks 2 and 3.
	RunnerUp decimal.Decimal

	// Last applies to the final rank when no earlier band matched.
	Last decimal.Decimal

	// Default applies to everyone else.
	Default decimal.Decimal
}

// DefaultTiers is 15% / 10% / 0% / 5%.
func DefaultTiers() Tiers {
	return Tiers{
		First:    decimal.NewFromInt(15),
		RunnerUp: decimal.NewFromInt(10),
		Last:     decimal.Zero,
		Default:  decimal.NewFromInt(5),
	}
}

// Percent returns the percentage that applies to position index out of total.
func (t Tiers) Percent(index, total int) decimal.Decimal {
	position := index + 1
	switch {
	case position == 1:
		return t.First
	case position == 2 || position == 3:
		return t.RunnerUp
	case position == total:
		return t.Last
	default:
		return t.Default
	}
}

// TieredBonus builds a BonusFunc paying tiers.Percent of the seller's profit.
func TieredBonus(tiers Tiers) BonusFunc {
	return func(index, total int, seller SellerStats) decimal.Decimal {
		return seller.Profit.Mul(tiers.Percent(index, total)).Div(hundred)
	}
}

var defaultBonus = TieredBonus(DefaultTiers())

// CalculateBonusByProfit pays 15% of profit to the top seller, 10% to the next
// two, nothing to the last one and 5% to the rest.
func CalculateBonusByProfit(index, total int, seller SellerStats) decimal.Decimal {
	return defaultBonus(index, total, seller)
}
