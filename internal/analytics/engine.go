// =============================================================================
// Seller Performance Report - Aggregation Engine
// =============================================================================
//
// The engine turns a Dataset into ranked ReportRows in three passes:
//
//   1. ACCUMULATE: walk purchase records in input order, adding each record's
//      total to its seller's revenue and each matched item's profit
//      (revenue policy minus purchase cost) to the seller's profit.
//   2. RANK: stable-sort sellers by descending profit, then ask the bonus
//      policy for each seller's bonus and extract the top products.
//   3. ASSEMBLE: snapshot every seller into a ReportRow, rounding money to
//      two decimal places.
//
// Records for unknown sellers and items for unknown skus are skipped, not
// reported as errors.
//
// CONCURRENCY:
//   Analyze is synchronous. AnalyzeWithOptions may split the accumulation
//   pass across workers; partial totals are merged by seller before ranking
//   and the output is identical to a sequential run.
//
// =============================================================================

package analytics

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// TopProductsLimit caps the number of top products reported per seller.
const TopProductsLimit = 10

// Options tunes a run. The zero value runs sequentially.
type Options struct {
	// Workers is the number of goroutines used for the accumulation pass.
	// Values below 2 mean sequential processing.
	Workers int
}

// Outcome is the full result of a run.
type Outcome struct {
	// Rows holds one entry per seller in descending profit order.
	Rows []types.ReportRow

	// SkippedRecords counts purchase records whose seller was unknown.
	SkippedRecords int

	// SkippedItems counts line items whose sku was unknown, within records
	// that were otherwise counted.
	SkippedItems int
}

// Analyze computes the seller report sequentially.
func Analyze(data *types.Dataset, policies Policies) ([]types.ReportRow, error) {
	out, err := AnalyzeWithOptions(data, policies, Options{})
	if err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// AnalyzeWithOptions computes the seller report. Input checks run before any
// computation and the first failing one is returned.
func AnalyzeWithOptions(data *types.Dataset, policies Policies, opts Options) (*Outcome, error) {
	if err := validate(data, policies); err != nil {
		return nil, err
	}

	// =========================================================================
	// INITIALIZATION
	// =========================================================================

	sellers := make([]*accumulator, len(data.Sellers))
	sellerIndex := make(map[string]int, len(data.Sellers))
	for i, s := range data.Sellers {
		sellers[i] = newAccumulator(s.ID, s.FirstName+" "+s.LastName)
		sellerIndex[s.ID] = i
	}

	productIndex := make(map[string]types.Product, len(data.Products))
	for _, p := range data.Products {
		productIndex[p.SKU] = p
	}

	p := &pass{
		sellerIndex:  sellerIndex,
		productIndex: productIndex,
		revenue:      policies.Revenue,
	}

	// =========================================================================
	// ACCUMULATION
	// =========================================================================

	var skippedRecords, skippedItems int
	if opts.Workers < 2 || len(data.PurchaseRecords) < 2 {
		skippedRecords, skippedItems = p.run(data.PurchaseRecords, 0, sellers, nil)
	} else {
		skippedRecords, skippedItems = p.runPartitioned(data.PurchaseRecords, sellers, opts.Workers)
	}

	// =========================================================================
	// RANKING
	// =========================================================================

	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].profit.GreaterThan(sellers[j].profit)
	})

	total := len(sellers)
	for i, acc := range sellers {
		acc.bonus = policies.Bonus(i, total, acc.stats()).Round(2)
		acc.topProducts = acc.top(TopProductsLimit)
	}

	// =========================================================================
	// OUTPUT
	// =========================================================================

	rows := make([]types.ReportRow, len(sellers))
	for i, acc := range sellers {
		rows[i] = acc.row()
	}

	return &Outcome{
		Rows:           rows,
		SkippedRecords: skippedRecords,
		SkippedItems:   skippedItems,
	}, nil
}

func validate(data *types.Dataset, policies Policies) error {
	switch {
	case data == nil:
		return ErrMissingInput
	case len(data.Sellers) == 0:
		return ErrEmptySellers
	case len(data.Products) == 0:
		return ErrEmptyProducts
	case len(data.PurchaseRecords) == 0:
		return ErrEmptyPurchaseRecords
	case policies.Bonus == nil:
		return ErrMissingBonusPolicy
	case policies.Revenue == nil:
		return ErrMissingRevenuePolicy
	}
	return nil
}

// pass holds the read-only lookups shared by every accumulation worker.
type pass struct {
	sellerIndex  map[string]int
	productIndex map[string]types.Product
	revenue      RevenueFunc
}

// run accumulates records into accs. offset is the position of records[0]
// in the full purchase-record list. When lazy is non-nil, accumulators are
// created on first touch from the template in lazy instead of being read
// from accs.
func (p *pass) run(records []types.PurchaseRecord, offset int, accs, lazy []*accumulator) (skippedRecords, skippedItems int) {
	for r, record := range records {
		idx, ok := p.sellerIndex[record.SellerID]
		if !ok {
			skippedRecords++
			continue
		}

		acc := accs[idx]
		if acc == nil {
			acc = newAccumulator(lazy[idx].id, lazy[idx].name)
			accs[idx] = acc
		}
		acc.addSale(record.TotalAmount)

		for i, item := range record.Items {
			product, ok := p.productIndex[item.SKU]
			if !ok {
				skippedItems++
				continue
			}

			cost := product.PurchasePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			profit := p.revenue(item, product).Sub(cost)
			acc.addItem(item.SKU, item.Quantity, profit, itemPosition{record: offset + r, item: i})
		}
	}
	return skippedRecords, skippedItems
}

// runPartitioned splits records into contiguous chunks, accumulates each
// chunk into its own delta and merges the deltas into sellers.
func (p *pass) runPartitioned(records []types.PurchaseRecord, sellers []*accumulator, workers int) (skippedRecords, skippedItems int) {
	if workers > len(records) {
		workers = len(records)
	}
	chunk := (len(records) + workers - 1) / workers

	type partial struct {
		deltas         []*accumulator
		skippedRecords int
		skippedItems   int
	}
	partials := make([]partial, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(records) {
			break
		}
		end := start + chunk
		if end > len(records) {
			end = len(records)
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			deltas := make([]*accumulator, len(sellers))
			sr, si := p.run(records[start:end], start, deltas, sellers)
			partials[w] = partial{deltas: deltas, skippedRecords: sr, skippedItems: si}
		}(w, start, end)
	}
	wg.Wait()

	for _, part := range partials {
		skippedRecords += part.skippedRecords
		skippedItems += part.skippedItems
		for idx, delta := range part.deltas {
			if delta != nil {
				sellers[idx].merge(delta)
			}
		}
	}
	return skippedRecords, skippedItems
}
