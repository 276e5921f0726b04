package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/order-console/internal/domain/order"
)

const (
	saveOrderSQL = `INSERT INTO orders (order_date, items, subtotal, total)
		VALUES ($1, $2, $3, $4) RETURNING id`

	listOrdersSQL = `SELECT id, order_date, items, subtotal, total
		FROM orders ORDER BY order_date DESC, id DESC LIMIT $1`

	listAllOrdersSQL = `SELECT id, order_date, items, subtotal, total
		FROM orders ORDER BY order_date DESC, id DESC`

	getOrderByIDSQL = `SELECT id, order_date, items, subtotal, total
		FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are stored in a JSONB column with prices serialized as strings, so
// the round-trip is exact and item order is preserved.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Save persists a new order and assigns the database-generated ID.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	items := encodeLineItems(o.Items)

	err := r.pool.QueryRow(ctx, saveOrderSQL,
		o.OrderDate, items, o.Subtotal, o.Total,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	return nil
}

// List returns up to limit orders, most recent first. A non-positive limit
// returns all orders.
func (r *OrderRepository) List(ctx context.Context, limit int) ([]order.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, listOrdersSQL, limit)
	} else {
		rows, err = r.pool.Query(ctx, listAllOrdersSQL)
	}
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o     order.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &o.OrderDate, &items, &o.Subtotal, &o.Total); err != nil {
		return order.Order{}, err
	}

	decoded, err := decodeLineItems(items)
	if err != nil {
		return order.Order{}, fmt.Errorf("decoding order %d items: %w", o.ID, err)
	}
	o.Items = decoded
	return o, nil
}
