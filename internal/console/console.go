// Package console implements the interactive text menus over an io.Reader
// and io.Writer pair. It owns all parsing of raw user input: menu choices,
// product IDs, quantities, and confirmation answers are converted here into
// workflow operations, so the domain packages never see raw strings.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/order-console/internal/domain/basket"
	"github.com/xenking/order-console/internal/domain/checkout"
	"github.com/xenking/order-console/internal/domain/order"
	"github.com/xenking/order-console/internal/domain/product"
)

const divider = "---------------------------------------------"

// Config holds presentation settings for the console.
type Config struct {
	// Currency is the code appended to every printed amount.
	Currency string
	// HistoryLimit caps how many orders the history view loads.
	HistoryLimit int
}

// Console runs the interactive session. It reads one line per prompt and
// processes commands synchronously; a closed or exhausted input stream ends
// the session cleanly.
type Console struct {
	cfg  Config
	in   *bufio.Scanner
	out  io.Writer
	deps checkout.Deps
	lg   *zap.Logger
}

// New creates a console reading from r and writing to w.
func New(cfg Config, r io.Reader, w io.Writer, deps checkout.Deps) *Console {
	if cfg.Currency == "" {
		cfg.Currency = "PLN"
	}
	lg := deps.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Console{
		cfg:  cfg,
		in:   bufio.NewScanner(r),
		out:  w,
		deps: deps,
		lg:   lg,
	}
}

// Run drives the main menu until the user exits, the input ends, or ctx is
// cancelled.
func (c *Console) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		c.printf("\nWelcome to the Place Order App\n")
		c.printf("Please choose an option:\n")
		c.printf("1. Place an order\n")
		c.printf("2. Order history\n")
		c.printf("3. Exit\n")

		choice, ok := c.prompt("Enter your choice (1-3): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			if err := c.placeOrder(ctx); err != nil {
				return err
			}
		case "2":
			if err := c.orderHistory(ctx); err != nil {
				return err
			}
		case "3":
			c.printf("Exiting the application...\n")
			return nil
		default:
			c.printf("Invalid choice. Please select an option between 1 and 3.\n")
		}
	}
	return ctx.Err()
}

// placeOrder runs one checkout workflow instance to completion or
// abandonment. The rendering switches on the workflow state; every menu
// choice maps to exactly one workflow operation.
func (c *Console) placeOrder(ctx context.Context) error {
	products, err := c.deps.Catalog.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}

	wf := checkout.New(c.deps)
	c.lg.Debug("checkout session started", zap.String("session", wf.ID().String()))

	for ctx.Err() == nil {
		switch wf.State() {
		case checkout.StateBrowsing:
			done, err := c.browse(ctx, wf, products)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case checkout.StateReviewingBasket:
			if ok := c.reviewBasket(wf); !ok {
				return nil
			}
		case checkout.StateReviewingSummary:
			ok, err := c.reviewSummary(ctx, wf)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		case checkout.StateConfirmed:
			return nil
		default:
			return errors.Errorf("unexpected workflow state %v", wf.State())
		}
	}
	return ctx.Err()
}

// browse renders the catalog menu. It returns done=true when the user backs
// out to the main menu or the input ends.
func (c *Console) browse(ctx context.Context, wf *checkout.Workflow, products []product.Product) (bool, error) {
	c.printf("\nPlace Order:\n")
	for _, p := range products {
		c.printf("%d. %s | Price: %s %s\n", p.ID, p.Name, p.Price.String(), c.cfg.Currency)
	}
	c.printf("%s\nOptions:\n", divider)
	c.printf("1. Back to main menu\n")
	c.printf("2. Add product to basket\n")
	c.printf("3. View basket\n")

	choice, ok := c.prompt("Enter your choice (1-3): ")
	if !ok {
		return true, nil
	}

	switch choice {
	case "1":
		return true, nil
	case "2":
		if err := wf.BeginAdd(); err != nil {
			return false, err
		}
		c.addItem(ctx, wf)
	case "3":
		if err := wf.ReviewBasket(); err != nil {
			return false, err
		}
	default:
		c.printf("Invalid choice. Please try again.\n")
	}
	return false, nil
}

// addItem prompts for a product ID and quantity and applies the add. Parse
// failures abort the add without touching the basket.
func (c *Console) addItem(ctx context.Context, wf *checkout.Workflow) {
	productID, ok := c.promptInt64("Enter product ID: ")
	if !ok {
		c.printf("Invalid input. Please enter a numeric product ID.\n")
		_ = wf.AbortAdd()
		return
	}

	quantity, ok := c.promptInt("Enter the quantity: ")
	if !ok {
		c.printf("Invalid quantity. Please enter a positive numeric value.\n")
		_ = wf.AbortAdd()
		return
	}

	p, err := wf.AddItem(ctx, productID, quantity)
	if err != nil {
		c.reportError(err)
		return
	}
	c.printf("Added %d x %s to the basket.\n", quantity, p.Name)
}

// reviewBasket renders the basket with 1-based item numbers and handles
// quantity updates and removals. It returns false when the input ends.
func (c *Console) reviewBasket(wf *checkout.Workflow) bool {
	if wf.Empty() {
		c.printf("\nYour basket is empty.\n")
		_ = wf.BackToBrowsing()
		return true
	}

	c.printf("\nBasket Summary:\n")
	c.printItems(wf.Items(), true)
	c.printf("%s\nTotal Cost: %s %s\n", divider, wf.Total().String(), c.cfg.Currency)
	c.printf("Options:\n")
	c.printf("1. Back to products\n")
	c.printf("2. Modify item quantity\n")
	c.printf("3. Remove item from basket\n")
	c.printf("4. View order summary\n")

	choice, ok := c.prompt("Enter your choice (1-4): ")
	if !ok {
		return false
	}

	switch choice {
	case "1":
		_ = wf.BackToBrowsing()
	case "2":
		c.modifyItem(wf)
	case "3":
		c.removeItem(wf)
	case "4":
		_ = wf.ReviewSummary()
	default:
		c.printf("Invalid choice. Please try again.\n")
	}
	return true
}

func (c *Console) modifyItem(wf *checkout.Workflow) {
	itemNumber, ok := c.promptInt("Enter the item number to modify quantity: ")
	if !ok {
		c.printf("Invalid item number. Please try again.\n")
		return
	}

	quantity, ok := c.promptInt("Enter the new quantity: ")
	if !ok {
		c.printf("Invalid quantity. Please enter a positive numeric value.\n")
		return
	}

	if err := wf.UpdateQuantity(itemNumber, quantity); err != nil {
		c.reportError(err)
		return
	}
	c.printf("Item quantity updated successfully.\n")
}

func (c *Console) removeItem(wf *checkout.Workflow) {
	itemNumber, ok := c.promptInt("Enter the item number to remove: ")
	if !ok {
		c.printf("Invalid item number. Please try again.\n")
		return
	}

	if err := wf.RemoveItem(itemNumber); err != nil {
		c.reportError(err)
		return
	}
	c.printf("Item removed successfully.\n")
}

// reviewSummary shows the recomputed discount preview and handles the
// confirmation prompt.
func (c *Console) reviewSummary(ctx context.Context, wf *checkout.Workflow) (bool, error) {
	sum, err := wf.Summary()
	if err != nil {
		return false, err
	}

	c.printf("\nOrder Summary:\n")
	c.printItems(sum.Items, false)
	c.printf("%s\n", divider)
	c.printf("Subtotal: %s %s\n", sum.Subtotal.String(), c.cfg.Currency)
	c.printf("Discount: -%s %s\n", sum.Discount.String(), c.cfg.Currency)
	c.printf("Total cost: %s %s\n", sum.Total.String(), c.cfg.Currency)
	c.printf("Options:\n")
	c.printf("1. Back to basket summary\n")
	c.printf("2. Place order\n")

	choice, ok := c.prompt("Enter your choice (1-2): ")
	if !ok {
		return false, nil
	}

	switch choice {
	case "1":
		_ = wf.BackToBasket()
	case "2":
		return c.confirm(ctx, wf)
	default:
		c.printf("Invalid choice. Please try again.\n")
	}
	return true, nil
}

// confirm re-prompts until the user gives a recognizable answer or the input
// ends. A persistence failure is reported and leaves the summary open with
// the basket intact, so the order can be resubmitted.
func (c *Console) confirm(ctx context.Context, wf *checkout.Workflow) (bool, error) {
	for {
		answer, ok := c.prompt("Are you sure you want to place the order? (yes/no): ")
		if !ok {
			return false, nil
		}

		result, err := wf.Confirm(ctx, checkout.ParseAnswer(answer))
		if err != nil {
			if errors.Is(err, checkout.ErrInvalidAnswer) {
				c.printf("Invalid input. Please type 'yes' or 'no'.\n")
				continue
			}
			var pErr *checkout.PersistenceError
			if errors.As(err, &pErr) {
				c.printf("Could not save your order: %v\n", pErr.Err)
				c.printf("Your basket is unchanged; please try again.\n")
				return true, nil
			}
			return false, err
		}

		switch result.Outcome {
		case checkout.OutcomePlaced:
			c.printf("Order #%d placed successfully!\n", result.Order.ID)
			c.printf("Thank you for your purchase. Returning to the main menu...\n")
		case checkout.OutcomeCancelled:
			c.printf("Order placement canceled. Returning to order summary...\n")
		}
		return true, nil
	}
}

// printItems renders line items; numbered selects the indexed basket layout.
func (c *Console) printItems(items []order.LineItem, numbered bool) {
	for i, item := range items {
		if numbered {
			c.printf("%d. ", i+1)
		}
		c.printf("%s | Quantity: %d | Price: %s %s | Subtotal: %s %s\n",
			item.ProductName, item.Quantity,
			item.UnitPrice.String(), c.cfg.Currency,
			item.Subtotal().String(), c.cfg.Currency,
		)
	}
}

// reportError prints a user-facing message for recoverable domain errors and
// logs anything unexpected.
func (c *Console) reportError(err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		c.printf("Product not found. Please enter a valid product ID.\n")
	case errors.Is(err, basket.ErrItemNotFound):
		c.printf("Invalid item number. Please try again.\n")
	case errors.Is(err, basket.ErrInvalidQuantity):
		c.printf("Invalid quantity. Please enter a positive numeric value.\n")
	default:
		c.lg.Warn("command failed", zap.Error(err))
		c.printf("Something went wrong: %v\n", err)
	}
}

// prompt prints the given text and reads one line. ok is false when the
// input stream is exhausted.
func (c *Console) prompt(text string) (line string, ok bool) {
	c.printf("%s", text)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// promptInt reads one line and parses it as an int; ok is false on EOF or
// unparseable input.
func (c *Console) promptInt(text string) (int, bool) {
	line, ok := c.prompt(text)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Console) promptInt64(text string) (int64, bool) {
	line, ok := c.prompt(text)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
