// Package basket implements the in-memory collection of line items a user
// assembles before confirming an order. A basket is exclusively owned by one
// checkout workflow instance; it is not safe for concurrent use.
package basket

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-console/internal/domain/order"
	"github.com/xenking/order-console/internal/domain/product"
)

var (
	// ErrItemNotFound is returned when an item number does not reference an
	// existing basket entry.
	ErrItemNotFound = errors.New("basket item not found")
	// ErrInvalidQuantity is returned when a quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Basket is an ordered sequence of line items, unique by product ID. Entries
// always have quantity >= 1; removal deletes the entry rather than storing a
// zero quantity. Item numbers exposed by SetQuantity and Remove are 1-based,
// matching how items are presented to the user.
type Basket struct {
	items []order.LineItem
}

// New returns an empty basket.
func New() *Basket {
	return &Basket{}
}

// Add puts quantity units of p into the basket, snapshotting the product's
// name and price. If the basket already holds an entry for the product, its
// quantity is incremented; otherwise a new entry is appended, preserving
// insertion order.
func (b *Basket) Add(p product.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range b.items {
		if b.items[i].ProductID == p.ID {
			b.items[i].Quantity += quantity
			return nil
		}
	}

	b.items = append(b.items, order.LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    quantity,
	})
	return nil
}

// SetQuantity replaces the quantity of the item at the given 1-based number.
func (b *Basket) SetQuantity(itemNumber, quantity int) error {
	if itemNumber < 1 || itemNumber > len(b.items) {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	b.items[itemNumber-1].Quantity = quantity
	return nil
}

// Remove deletes the item at the given 1-based number.
func (b *Basket) Remove(itemNumber int) error {
	if itemNumber < 1 || itemNumber > len(b.items) {
		return ErrItemNotFound
	}

	b.items = append(b.items[:itemNumber-1], b.items[itemNumber:]...)
	return nil
}

// Total returns the sum of unit price times quantity over all entries.
// An empty basket totals zero.
func (b *Basket) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range b.items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// Items returns a copy of the basket's entries. Mutating the basket after
// taking a snapshot does not affect previously returned slices.
func (b *Basket) Items() []order.LineItem {
	items := make([]order.LineItem, len(b.items))
	copy(items, b.items)
	return items
}

// Len returns the number of distinct entries in the basket.
func (b *Basket) Len() int {
	return len(b.items)
}

// Empty reports whether the basket has no entries.
func (b *Basket) Empty() bool {
	return len(b.items) == 0
}

// Clear removes all entries. Called after a successful order confirmation.
func (b *Basket) Clear() {
	b.items = nil
}
