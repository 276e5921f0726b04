// Package discount computes the order discount from the basket's line items
// and subtotal. The computation is a pure function: same inputs always yield
// the same result, and no rounding is applied so decimal results stay exact.
package discount

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xenking/order-console/internal/domain/order"
)

var (
	// volumeThreshold is the subtotal above which (strictly) the volume
	// discount applies. A subtotal of exactly 5000 does not qualify.
	volumeThreshold = decimal.NewFromInt(5000)

	fivePercent   = decimal.New(5, -2)
	tenPercent    = decimal.New(10, -2)
	twentyPercent = decimal.New(20, -2)
)

// Result holds the computed discount and the resulting total.
type Result struct {
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Compute evaluates both discount rules against the given subtotal and items
// and returns their sum. The rules are independent and additive, with no cap:
//
//  1. When every item has quantity 1, a step function on the item count
//     applies: exactly 2 items grant 10% of the second-highest unit price,
//     exactly 3 items grant 20% of the cheapest unit price. Any other count
//     grants nothing, and a single multi-unit item anywhere disables the
//     rule entirely.
//  2. A subtotal strictly greater than 5000 grants 5% of the subtotal.
//
// Empty or nil items yield a zero discount and total == subtotal.
func Compute(subtotal decimal.Decimal, items []order.LineItem) Result {
	d := decimal.Zero

	if len(items) > 0 && allSingleUnit(items) {
		sorted := sortByPriceDesc(items)

		// Step function on item count, not a general formula.
		switch len(sorted) {
		case 2:
			d = d.Add(sorted[1].UnitPrice.Mul(tenPercent))
		case 3:
			d = d.Add(sorted[2].UnitPrice.Mul(twentyPercent))
		}
	}

	if subtotal.GreaterThan(volumeThreshold) {
		d = d.Add(subtotal.Mul(fivePercent))
	}

	return Result{
		Discount: d,
		Total:    subtotal.Sub(d),
	}
}

// allSingleUnit reports whether every item has quantity exactly 1.
func allSingleUnit(items []order.LineItem) bool {
	for _, item := range items {
		if item.Quantity != 1 {
			return false
		}
	}
	return true
}

// sortByPriceDesc returns a copy of items ordered by unit price descending.
// The sort is stable so equal prices keep their original order.
func sortByPriceDesc(items []order.LineItem) []order.LineItem {
	sorted := make([]order.LineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnitPrice.GreaterThan(sorted[j].UnitPrice)
	})
	return sorted
}
