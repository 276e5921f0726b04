package console

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/order-console/internal/domain/order"
)

// orderHistory lists persisted orders, most recent first, and lets the user
// drill into one order's details.
func (c *Console) orderHistory(ctx context.Context) error {
	for ctx.Err() == nil {
		orders, err := c.deps.Orders.List(ctx, c.cfg.HistoryLimit)
		if err != nil {
			return errors.Wrap(err, "list orders")
		}

		c.printf("\nOrder History:\n")
		if len(orders) == 0 {
			c.printf("No orders found.\n")
			return nil
		}

		for i, o := range orders {
			c.printf("%d. Order Date: %s | Total: %s %s | Items: %d\n",
				i+1, o.OrderDate.Format("02 Jan 2006 15:04"),
				o.Total.String(), c.cfg.Currency, o.Quantity(),
			)
		}

		c.printf("%s\nOptions:\n", divider)
		c.printf("1. Back to main menu\n")
		c.printf("2. View order details\n")

		choice, ok := c.prompt("Enter your choice (1-2): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			return nil
		case "2":
			number, ok := c.promptInt("Enter the order number to view details: ")
			if !ok || number < 1 || number > len(orders) {
				c.printf("Invalid order number. Please try again.\n")
				continue
			}
			if err := c.orderDetails(ctx, orders[number-1].ID); err != nil {
				return err
			}
		default:
			c.printf("Invalid choice. Please try again.\n")
		}
	}
	return ctx.Err()
}

// orderDetails fetches one order through the store and renders its items and
// discount-adjusted totals.
func (c *Console) orderDetails(ctx context.Context, id int64) error {
	o, err := c.deps.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.printf("Order not found.\n")
			return nil
		}
		return errors.Wrap(err, "get order")
	}

	c.printf("\nOrder Details\nOrder Date: %s\n%s\n",
		o.OrderDate.Format("02 Jan 2006 15:04"), divider)
	c.printItems(o.Items, false)
	c.printf("%s\nSubtotal: %s %s\n", divider, o.Subtotal.String(), c.cfg.Currency)
	c.printf("Discount: -%s %s\n", o.Discount().String(), c.cfg.Currency)
	c.printf("Total: %s %s\n", o.Total.String(), c.cfg.Currency)
	return nil
}
