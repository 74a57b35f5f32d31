package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// itemPosition locates a line item in the purchase-record stream. It orders
// sku entries by first occurrence, independent of how records were split
// between workers.
type itemPosition struct {
	record int
	item   int
}

func (p itemPosition) before(o itemPosition) bool {
	if p.record != o.record {
		return p.record < o.record
	}
	return p.item < o.item
}

// skuTally is the running quantity of one sku for one seller.
type skuTally struct {
	quantity int
	first    itemPosition
}

// accumulator holds one seller's running totals during a single run.
type accumulator struct {
	id         string
	name       string
	revenue    decimal.Decimal
	profit     decimal.Decimal
	salesCount int
	sold       map[string]*skuTally

	// filled by the ranking pass
	bonus       decimal.Decimal
	topProducts []types.TopProduct
}

func newAccumulator(id, name string) *accumulator {
	return &accumulator{
		id:      id,
		name:    name,
		revenue: decimal.Zero,
		profit:  decimal.Zero,
		sold:    make(map[string]*skuTally),
		bonus:   decimal.Zero,
	}
}

func (a *accumulator) addSale(totalAmount decimal.Decimal) {
	a.salesCount++
	a.revenue = a.revenue.Add(totalAmount)
}

func (a *accumulator) addItem(sku string, quantity int, profit decimal.Decimal, pos itemPosition) {
	a.profit = a.profit.Add(profit)

	tally, ok := a.sold[sku]
	if !ok {
		a.sold[sku] = &skuTally{quantity: quantity, first: pos}
		return
	}
	tally.quantity += quantity
	if pos.before(tally.first) {
		tally.first = pos
	}
}

// merge adds delta's totals into a. Sums are exact, so the order in which
// deltas are merged does not change the result.
func (a *accumulator) merge(delta *accumulator) {
	a.salesCount += delta.salesCount
	a.revenue = a.revenue.Add(delta.revenue)
	a.profit = a.profit.Add(delta.profit)

	for sku, d := range delta.sold {
		tally, ok := a.sold[sku]
		if !ok {
			a.sold[sku] = &skuTally{quantity: d.quantity, first: d.first}
			continue
		}
		tally.quantity += d.quantity
		if d.first.before(tally.first) {
			tally.first = d.first
		}
	}
}

func (a *accumulator) stats() SellerStats {
	return SellerStats{
		ID:         a.id,
		Name:       a.name,
		Revenue:    a.revenue,
		Profit:     a.profit,
		SalesCount: a.salesCount,
	}
}

// top returns up to limit skus by descending quantity. Equal quantities keep
// the order in which the skus were first sold.
func (a *accumulator) top(limit int) []types.TopProduct {
	type entry struct {
		sku   string
		tally *skuTally
	}

	entries := make([]entry, 0, len(a.sold))
	for sku, tally := range a.sold {
		entries = append(entries, entry{sku: sku, tally: tally})
	}

	// Map iteration is random, so restore first-seen order before the
	// stable quantity sort.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].tally.first.before(entries[j].tally.first)
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].tally.quantity > entries[j].tally.quantity
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	top := make([]types.TopProduct, len(entries))
	for i, e := range entries {
		top[i] = types.TopProduct{SKU: e.sku, Quantity: e.tally.quantity}
	}
	return top
}

func (a *accumulator) row() types.ReportRow {
	return types.ReportRow{
		SellerID:    a.id,
		Name:        a.name,
		Revenue:     a.revenue.Round(2),
		Profit:      a.profit.Round(2),
		SalesCount:  a.salesCount,
		TopProducts: a.topProducts,
		Bonus:       a.bonus.Round(2),
	}
}
