package basket

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-console/internal/domain/product"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func p(id int64, name, price string) product.Product {
	return product.Product{ID: id, Name: name, Price: d(price)}
}

func TestAdd_AppendsPreservingOrder(t *testing.T) {
	b := New()

	require.NoError(t, b.Add(p(2, "Keyboard", "120"), 1))
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 1))
	require.NoError(t, b.Add(p(3, "Mouse", "90"), 2))

	items := b.Items()
	require.Len(t, items, 3)
	assert.Equal(t, int64(2), items[0].ProductID)
	assert.Equal(t, int64(1), items[1].ProductID)
	assert.Equal(t, int64(3), items[2].ProductID)
	assert.Equal(t, "Keyboard", items[0].ProductName)
	assert.True(t, d("120").Equal(items[0].UnitPrice))
}

func TestAdd_MergesSameProduct(t *testing.T) {
	b := New()

	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 2))
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 3))

	items := b.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAdd_InvalidQuantity(t *testing.T) {
	b := New()

	require.ErrorIs(t, b.Add(p(1, "Laptop", "2500"), 0), ErrInvalidQuantity)
	require.ErrorIs(t, b.Add(p(1, "Laptop", "2500"), -1), ErrInvalidQuantity)
	assert.True(t, b.Empty())
}

func TestAdd_SnapshotsPrice(t *testing.T) {
	b := New()
	laptop := p(1, "Laptop", "2500")
	require.NoError(t, b.Add(laptop, 1))

	// A later catalog price change must not affect the basket entry.
	laptop.Price = d("9999")

	assert.True(t, d("2500").Equal(b.Items()[0].UnitPrice))
}

func TestSetQuantity(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 2))
	require.NoError(t, b.Add(p(2, "Mouse", "90"), 1))

	require.NoError(t, b.SetQuantity(1, 7))

	items := b.Items()
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestSetQuantity_Errors(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 2))

	tests := []struct {
		name       string
		itemNumber int
		quantity   int
		wantErr    error
	}{
		{"zero index", 0, 1, ErrItemNotFound},
		{"out of range", 2, 1, ErrItemNotFound},
		{"negative index", -1, 1, ErrItemNotFound},
		{"zero quantity", 1, 0, ErrInvalidQuantity},
		{"negative quantity", 1, -3, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, b.SetQuantity(tt.itemNumber, tt.quantity), tt.wantErr)
			// Failure must not mutate the basket.
			assert.Equal(t, 2, b.Items()[0].Quantity)
		})
	}
}

func TestRemove(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 1))
	require.NoError(t, b.Add(p(2, "Mouse", "90"), 1))
	require.NoError(t, b.Add(p(3, "Monitor", "1000"), 1))

	require.NoError(t, b.Remove(2))

	items := b.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, int64(3), items[1].ProductID)
}

func TestRemove_OutOfRange(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 1))

	require.ErrorIs(t, b.Remove(0), ErrItemNotFound)
	require.ErrorIs(t, b.Remove(2), ErrItemNotFound)
	assert.Equal(t, 1, b.Len())
}

func TestTotal(t *testing.T) {
	b := New()
	assert.True(t, decimal.Zero.Equal(b.Total()), "empty basket totals zero")

	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 2))
	require.NoError(t, b.Add(p(2, "Mouse", "90.50"), 3))

	assert.True(t, d("5271.50").Equal(b.Total()))
}

func TestItems_SnapshotIsolation(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 1))

	snapshot := b.Items()
	require.NoError(t, b.SetQuantity(1, 9))
	require.NoError(t, b.Add(p(2, "Mouse", "90"), 1))

	require.Len(t, snapshot, 1)
	assert.Equal(t, 1, snapshot[0].Quantity)
}

func TestClear(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(p(1, "Laptop", "2500"), 1))

	b.Clear()

	assert.True(t, b.Empty())
	assert.True(t, decimal.Zero.Equal(b.Total()))
}
