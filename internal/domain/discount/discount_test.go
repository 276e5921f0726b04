package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/order-console/internal/domain/order"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func item(price string, qty int) order.LineItem {
	return order.LineItem{UnitPrice: d(price), Quantity: qty}
}

func subtotal(items []order.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		items        []order.LineItem
		wantDiscount decimal.Decimal
	}{
		{
			name:         "no items",
			items:        nil,
			wantDiscount: d("0"),
		},
		{
			name:         "single item no discount",
			items:        []order.LineItem{item("200", 1)},
			wantDiscount: d("0"),
		},
		{
			name:         "two single-unit items: 10% of second highest",
			items:        []order.LineItem{item("200", 1), item("100", 1)},
			wantDiscount: d("10"),
		},
		{
			name:         "two items sorted regardless of input order",
			items:        []order.LineItem{item("100", 1), item("200", 1)},
			wantDiscount: d("10"),
		},
		{
			name:         "three single-unit items: 20% of cheapest",
			items:        []order.LineItem{item("200", 1), item("100", 1), item("50", 1)},
			wantDiscount: d("10"),
		},
		{
			name: "four single-unit items: step function gives nothing",
			items: []order.LineItem{
				item("200", 1), item("100", 1), item("50", 1), item("25", 1),
			},
			wantDiscount: d("0"),
		},
		{
			name:         "multi-unit item disables the tier entirely",
			items:        []order.LineItem{item("200", 1), item("100", 2)},
			wantDiscount: d("0"),
		},
		{
			name:         "multi-unit among three disables the tier",
			items:        []order.LineItem{item("200", 1), item("100", 1), item("50", 2)},
			wantDiscount: d("0"),
		},
		{
			name:         "subtotal exactly 5000 does not qualify",
			items:        []order.LineItem{item("5000", 1)},
			wantDiscount: d("0"),
		},
		{
			name:         "subtotal just over threshold: exact 5%",
			items:        []order.LineItem{item("5000.01", 1)},
			wantDiscount: d("250.0005"),
		},
		{
			name:         "6000 with non-qualifying item counts: 5% only",
			items:        []order.LineItem{item("1500", 4)},
			wantDiscount: d("300"),
		},
		{
			name:         "tiers are additive with no cap",
			items:        []order.LineItem{item("5000", 1), item("1000", 1)},
			wantDiscount: d("400"), // 10% of 1000 + 5% of 6000
		},
		{
			name: "three expensive single-unit items combine both tiers",
			items: []order.LineItem{
				item("3000", 1), item("2000", 1), item("1000", 1),
			},
			wantDiscount: d("500"), // 20% of 1000 + 5% of 6000
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := subtotal(tt.items)
			res := Compute(sub, tt.items)

			assert.True(t, tt.wantDiscount.Equal(res.Discount),
				"discount: want %s, got %s", tt.wantDiscount, res.Discount)
			assert.True(t, sub.Sub(tt.wantDiscount).Equal(res.Total),
				"total: want %s, got %s", sub.Sub(tt.wantDiscount), res.Total)
		})
	}
}

func TestCompute_TieBrokenByOriginalOrder(t *testing.T) {
	// Two equally priced items plus one cheaper: the sort is stable, so the
	// cheapest stays third and drives the 20% tier.
	items := []order.LineItem{item("100", 1), item("100", 1), item("40", 1)}

	res := Compute(subtotal(items), items)

	assert.True(t, d("8").Equal(res.Discount))
}

func TestCompute_Deterministic(t *testing.T) {
	items := []order.LineItem{item("3000", 1), item("2500", 1)}
	sub := subtotal(items)

	first := Compute(sub, items)
	second := Compute(sub, items)

	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	items := []order.LineItem{item("50", 1), item("200", 1), item("100", 1)}

	_ = Compute(subtotal(items), items)

	assert.True(t, d("50").Equal(items[0].UnitPrice), "input order must be preserved")
	assert.True(t, d("200").Equal(items[1].UnitPrice))
}

func TestCompute_EmptyItemsIdentity(t *testing.T) {
	res := Compute(d("4200"), nil)

	assert.True(t, decimal.Zero.Equal(res.Discount))
	assert.True(t, d("4200").Equal(res.Total))
}
