package checkout

import "strings"

// State identifies where a checkout workflow instance currently is. Each
// operation on the Workflow validates the state it is called in and returns
// an InvalidTransitionError otherwise, so illegal input can never partially
// apply.
type State int

const (
	// StateBrowsing shows the catalog; the basket is visible but read-only.
	StateBrowsing State = iota
	// StateAddingItem collects a product ID and quantity for one add.
	StateAddingItem
	// StateReviewingBasket allows quantity changes and removals.
	StateReviewingBasket
	// StateReviewingSummary shows the discount preview and offers confirmation.
	StateReviewingSummary
	// StateConfirmed is terminal: the order is persisted and the basket cleared.
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateAddingItem:
		return "adding_item"
	case StateReviewingBasket:
		return "reviewing_basket"
	case StateReviewingSummary:
		return "reviewing_summary"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Answer is a parsed confirmation response. Parsing raw user input happens
// in the I/O layer; the workflow only consumes the enum.
type Answer int

const (
	// AnswerUnknown is any input that is neither affirmative nor negative.
	AnswerUnknown Answer = iota
	// AnswerYes confirms the order.
	AnswerYes
	// AnswerNo cancels confirmation and returns to the summary.
	AnswerNo
)

// ParseAnswer maps raw confirmation input to an Answer. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseAnswer(input string) Answer {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y":
		return AnswerYes
	case "no", "n":
		return AnswerNo
	default:
		return AnswerUnknown
	}
}

// Outcome describes the result of a confirmation attempt.
type Outcome int

const (
	// OutcomePlaced means the order was persisted and the workflow finished.
	OutcomePlaced Outcome = iota
	// OutcomeCancelled means the user declined; the summary stays open.
	// Cancellation is transient, not a resting state.
	OutcomeCancelled
)
