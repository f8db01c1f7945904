package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when the user has no cart or the cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProductUnavailable is returned when a cart line references a product
	// that does not exist or is not available for sale.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrInsufficientStock is returned when a product cannot cover the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderNumberConflict is returned when the generated order number is
	// already taken. The placement can be retried.
	ErrOrderNumberConflict = errors.New("order number conflict")
	// ErrTransactionFailure covers store failures during placement, including
	// context cancellation. The placement can be retried.
	ErrTransactionFailure = errors.New("transaction failure")

	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// PlacementState is a step of order placement.
type PlacementState string

const (
	StateValidating PlacementState = "validating"
	StateReserving  PlacementState = "reserving"
	StateCommitting PlacementState = "committing"
	StateCommitted  PlacementState = "committed"
	StateRejected   PlacementState = "rejected"
	StateAborted    PlacementState = "aborted"
)

// PlacementError describes why PlaceOrder failed. Kind is one of the
// placement sentinels above and is what errors.Is matches; State is the step
// that was running when the failure happened.
type PlacementError struct {
	Kind      error
	State     PlacementState
	ProductID string
	Err       error
}

func (e *PlacementError) Error() string {
	msg := e.Kind.Error()
	if e.ProductID != "" {
		msg = fmt.Sprintf("%s: product %s", msg, e.ProductID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%s): %v", msg, e.State, e.Err)
	}
	return msg
}

func (e *PlacementError) Is(target error) bool { return target == e.Kind }

func (e *PlacementError) Unwrap() error { return e.Err }

// Outcome is the terminal state a failure leaves the placement in.
func (e *PlacementError) Outcome() PlacementState {
	if IsRetryable(e) {
		return StateAborted
	}
	return StateRejected
}

// IsRetryable reports whether err is an infrastructure failure after which
// the same placement may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrOrderNumberConflict) || errors.Is(err, ErrTransactionFailure)
}

func rejected(kind error, state PlacementState, productID string) *PlacementError {
	return &PlacementError{Kind: kind, State: state, ProductID: productID}
}
