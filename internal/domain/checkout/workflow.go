// Package checkout implements the order workflow state machine: basket
// mutation, discount preview, and the confirmation transition that turns a
// basket into a persisted order. State is threaded explicitly through the
// Workflow value rather than shared flags, so every sub-flow reports its
// outcome through return values.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/order-console/internal/domain/basket"
	"github.com/xenking/order-console/internal/domain/discount"
	"github.com/xenking/order-console/internal/domain/order"
	"github.com/xenking/order-console/internal/domain/product"
)

// ErrInvalidAnswer is returned by Confirm for input that is neither
// affirmative nor negative. The workflow stays in the summary so the caller
// can re-prompt.
var ErrInvalidAnswer = errors.New("answer must be yes or no")

// InvalidTransitionError indicates an operation was invoked in a state that
// does not support it. The workflow is left untouched.
type InvalidTransitionError struct {
	Op    string
	State State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed while %s", e.Op, e.State)
}

// PersistenceError wraps a failed order save. The basket is left intact so
// the user can retry the confirmation.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order could not be saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Deps holds the collaborators shared by all workflow instances.
type Deps struct {
	Catalog product.Repository
	Orders  order.Repository
	Logger  *zap.Logger

	// Tracer and Placed are optional; New substitutes no-ops when nil.
	Tracer trace.Tracer
	Placed metric.Int64Counter

	// Now is the clock used for order dates. Defaults to time.Now.
	Now func() time.Time
}

// Summary is the discount preview shown before confirmation. It is computed
// from scratch on every request and never cached.
type Summary struct {
	Items    []order.LineItem
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ConfirmResult reports what a confirmation attempt did. Order is set only
// when Outcome is OutcomePlaced.
type ConfirmResult struct {
	Outcome Outcome
	Order   *order.Order
}

// Workflow drives one interactive checkout session. It exclusively owns its
// basket; sharing a workflow or its basket across sessions is not supported.
type Workflow struct {
	id     uuid.UUID
	state  State
	basket *basket.Basket
	deps   Deps

	// returnTo is the state BeginAdd was invoked from, restored after the
	// add completes or aborts.
	returnTo State
}

// New creates a workflow in StateBrowsing with an empty basket.
func New(deps Deps) *Workflow {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	id := uuid.New()
	return &Workflow{
		id:     id,
		state:  StateBrowsing,
		basket: basket.New(),
		deps:   deps,
	}
}

// ID returns the workflow's session identifier.
func (w *Workflow) ID() uuid.UUID {
	return w.id
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// Items returns a snapshot of the basket's entries.
func (w *Workflow) Items() []order.LineItem {
	return w.basket.Items()
}

// Empty reports whether the basket has no entries.
func (w *Workflow) Empty() bool {
	return w.basket.Empty()
}

// Total returns the basket subtotal.
func (w *Workflow) Total() decimal.Decimal {
	return w.basket.Total()
}

// BeginAdd enters StateAddingItem from browsing or the basket review,
// remembering where to return once the add finishes.
func (w *Workflow) BeginAdd() error {
	if w.state != StateBrowsing && w.state != StateReviewingBasket {
		return &InvalidTransitionError{Op: "add item", State: w.state}
	}
	w.returnTo = w.state
	w.state = StateAddingItem
	return nil
}

// AbortAdd leaves StateAddingItem without touching the basket. The I/O layer
// calls it when the product ID or quantity cannot be parsed.
func (w *Workflow) AbortAdd() error {
	if w.state != StateAddingItem {
		return &InvalidTransitionError{Op: "abort add", State: w.state}
	}
	w.state = w.returnTo
	return nil
}

// AddItem resolves the product in the catalog and merges it into the basket,
// returning the affected product. Whether or not the add succeeds, the
// workflow returns to the state it was in before BeginAdd; a failed add
// never partially applies.
func (w *Workflow) AddItem(ctx context.Context, productID int64, quantity int) (*product.Product, error) {
	if w.state != StateAddingItem {
		return nil, &InvalidTransitionError{Op: "add item", State: w.state}
	}
	w.state = w.returnTo

	if quantity <= 0 {
		return nil, basket.ErrInvalidQuantity
	}

	p, err := w.deps.Catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup product")
	}

	if err := w.basket.Add(*p, quantity); err != nil {
		return nil, err
	}
	return p, nil
}

// ReviewBasket moves from browsing to the basket review.
func (w *Workflow) ReviewBasket() error {
	if w.state != StateBrowsing {
		return &InvalidTransitionError{Op: "review basket", State: w.state}
	}
	w.state = StateReviewingBasket
	return nil
}

// BackToBrowsing returns from the basket review to browsing.
func (w *Workflow) BackToBrowsing() error {
	if w.state != StateReviewingBasket {
		return &InvalidTransitionError{Op: "back to browsing", State: w.state}
	}
	w.state = StateBrowsing
	return nil
}

// UpdateQuantity replaces the quantity of the item at the given 1-based
// number. Only valid while reviewing the basket.
func (w *Workflow) UpdateQuantity(itemNumber, quantity int) error {
	if w.state != StateReviewingBasket {
		return &InvalidTransitionError{Op: "update quantity", State: w.state}
	}
	return w.basket.SetQuantity(itemNumber, quantity)
}

// RemoveItem deletes the item at the given 1-based number. Only valid while
// reviewing the basket.
func (w *Workflow) RemoveItem(itemNumber int) error {
	if w.state != StateReviewingBasket {
		return &InvalidTransitionError{Op: "remove item", State: w.state}
	}
	return w.basket.Remove(itemNumber)
}

// ReviewSummary moves from the basket review to the order summary.
func (w *Workflow) ReviewSummary() error {
	if w.state != StateReviewingBasket {
		return &InvalidTransitionError{Op: "review summary", State: w.state}
	}
	w.state = StateReviewingSummary
	return nil
}

// BackToBasket returns from the summary to the basket review.
func (w *Workflow) BackToBasket() error {
	if w.state != StateReviewingSummary {
		return &InvalidTransitionError{Op: "back to basket", State: w.state}
	}
	w.state = StateReviewingBasket
	return nil
}

// Summary recomputes the discount preview from the current basket. It is
// valid only in the summary state and is recomputed on every call.
func (w *Workflow) Summary() (Summary, error) {
	if w.state != StateReviewingSummary {
		return Summary{}, &InvalidTransitionError{Op: "summary", State: w.state}
	}

	items := w.basket.Items()
	subtotal := w.basket.Total()
	res := discount.Compute(subtotal, items)

	return Summary{
		Items:    items,
		Subtotal: subtotal,
		Discount: res.Discount,
		Total:    res.Total,
	}, nil
}

// Confirm resolves the confirmation prompt. An affirmative answer builds the
// immutable order from a basket snapshot, persists it, clears the basket, and
// terminates the workflow. A negative answer keeps the summary open. Anything
// else returns ErrInvalidAnswer without a transition. When the save fails the
// basket and state are left untouched so the order can be resubmitted.
func (w *Workflow) Confirm(ctx context.Context, answer Answer) (ConfirmResult, error) {
	if w.state != StateReviewingSummary {
		return ConfirmResult{}, &InvalidTransitionError{Op: "confirm", State: w.state}
	}

	switch answer {
	case AnswerNo:
		return ConfirmResult{Outcome: OutcomeCancelled}, nil
	case AnswerYes:
	default:
		return ConfirmResult{}, ErrInvalidAnswer
	}

	items := w.basket.Items()
	subtotal := w.basket.Total()
	res := discount.Compute(subtotal, items)

	o := &order.Order{
		OrderDate: w.deps.Now().UTC(),
		Items:     items,
		Subtotal:  subtotal,
		Total:     res.Total,
	}

	if err := w.save(ctx, o); err != nil {
		w.deps.Logger.Warn("order save failed",
			zap.String("session", w.id.String()),
			zap.Error(err),
		)
		return ConfirmResult{}, &PersistenceError{Err: err}
	}

	w.basket.Clear()
	w.state = StateConfirmed

	if w.deps.Placed != nil {
		w.deps.Placed.Add(ctx, 1)
	}
	w.deps.Logger.Info("order placed",
		zap.String("session", w.id.String()),
		zap.Int64("order_id", o.ID),
		zap.String("subtotal", o.Subtotal.String()),
		zap.String("total", o.Total.String()),
		zap.Int("items", len(o.Items)),
	)

	return ConfirmResult{Outcome: OutcomePlaced, Order: o}, nil
}

// save persists the order, wrapping the call in a span when tracing is wired.
func (w *Workflow) save(ctx context.Context, o *order.Order) error {
	if w.deps.Tracer != nil {
		var span trace.Span
		ctx, span = w.deps.Tracer.Start(ctx, "checkout.save",
			trace.WithAttributes(
				attribute.String("session", w.id.String()),
				attribute.Int("items", len(o.Items)),
			),
		)
		defer span.End()
	}
	return w.deps.Orders.Save(ctx, o)
}
