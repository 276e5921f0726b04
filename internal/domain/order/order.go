package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order represents a confirmed purchase with discount-adjusted pricing.
// Orders are immutable after creation: the line items are a snapshot of the
// basket at confirmation time and are owned exclusively by the order.
type Order struct {
	ID        int64
	OrderDate time.Time
	Items     []LineItem
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
}

// Discount returns the discount that was applied to the order.
func (o *Order) Discount() decimal.Decimal {
	return o.Subtotal.Sub(o.Total)
}

// Quantity returns the total number of units across all line items.
func (o *Order) Quantity() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// LineItem is a product reference with a quantity. ProductName and UnitPrice
// are snapshotted when the item enters the basket, so later catalog changes
// do not affect baskets or persisted orders.
type LineItem struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Subtotal returns UnitPrice * Quantity for this line.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Save persists a new order and assigns its ID.
	Save(ctx context.Context, o *Order) error
	// List returns up to limit orders, most recent first. A non-positive
	// limit returns all orders.
	List(ctx context.Context, limit int) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
}
