package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

func TestCalculateSimpleRevenue(t *testing.T) {
	tests := []struct {
		name string
		item types.LineItem
		want string
	}{
		{"no discount", item("A", 2, "20", "0"), "40.00"},
		{"ten percent", item("A", 3, "10", "10"), "27.00"},
		{"full discount", item("A", 5, "99.99", "100"), "0.00"},
		{"rounds half up", item("A", 1, "0.125", "0"), "0.13"},
		{"fractional result", item("A", 3, "19.99", "7.5"), "55.47"},
		{"zero quantity", item("A", 0, "10", "0"), "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSimpleRevenue(tt.item, types.Product{})
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestCalculateSimpleRevenue_IgnoresProduct(t *testing.T) {
	it := item("A", 2, "20", "0")
	a := CalculateSimpleRevenue(it, types.Product{PurchasePrice: d("1")})
	b := CalculateSimpleRevenue(it, types.Product{PurchasePrice: d("1000")})
	assert.True(t, a.Equal(b))
}

func TestTiersPercent(t *testing.T) {
	tiers := DefaultTiers()

	tests := []struct {
		index, total int
		want         int64
	}{
		{0, 1, 15}, // single seller is first, not last
		{0, 2, 15},
		{1, 2, 10}, // second and last: runner-up wins
		{2, 3, 10},
		{3, 4, 0},
		{3, 5, 5},
		{4, 5, 0},
		{7, 20, 5},
	}

	for _, tt := range tests {
		got := tiers.Percent(tt.index, tt.total)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "index %d of %d: got %s", tt.index, tt.total, got)
	}
}

func TestCalculateBonusByProfit(t *testing.T) {
	stats := SellerStats{Profit: d("200")}

	assert.Equal(t, "30", CalculateBonusByProfit(0, 10, stats).String())
	assert.Equal(t, "20", CalculateBonusByProfit(1, 10, stats).String())
	assert.Equal(t, "20", CalculateBonusByProfit(2, 10, stats).String())
	assert.Equal(t, "10", CalculateBonusByProfit(5, 10, stats).String())
	assert.Equal(t, "0", CalculateBonusByProfit(9, 10, stats).String())
}

func TestTieredBonus_Custom(t *testing.T) {
	bonus := TieredBonus(Tiers{
		First:    d("20"),
		RunnerUp: d("12.5"),
		Last:     d("1"),
		Default:  d("2"),
	})
	stats := SellerStats{Profit: d("80")}

	assert.Equal(t, "16", bonus(0, 6, stats).String())
	assert.Equal(t, "10", bonus(2, 6, stats).String())
	assert.Equal(t, "1.6", bonus(4, 6, stats).String())
	assert.Equal(t, "0.8", bonus(5, 6, stats).String())
}
