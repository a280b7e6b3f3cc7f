package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveHold is returned when a resolution is requested with no
	// outstanding hold. No network call is made.
	ErrNoActiveHold = errors.New("no booking to confirm")

	// ErrHoldOutstanding guards the single-hold invariant: a new hold cannot
	// be created while one is live.
	ErrHoldOutstanding = errors.New("a hold is already outstanding")
)

// InsufficientSeatsError is a local precondition failure raised before any
// mutating call is made: the seat map does not carry enough AVAILABLE seats
// to satisfy the request. No partial holds are ever created.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough available seats (requested %d, available %d)", e.Requested, e.Available)
}

// HoldRejectedError means the Inventory Service declined the hold request.
// Detail carries whatever the server said.
type HoldRejectedError struct {
	Detail string
	Err    error
}

func (e *HoldRejectedError) Error() string {
	return fmt.Sprintf("booking hold rejected: %s", e.Detail)
}
func (e *HoldRejectedError) Unwrap() error { return e.Err }

// PaymentConfirmError means the confirmation call failed at transport or
// server level. The hold is left untouched so the caller can retry, but the
// server may already have mutated state; the orchestrator has no
// reconciliation query, so recovery is manual.
type PaymentConfirmError struct {
	Err error
}

func (e *PaymentConfirmError) Error() string {
	return fmt.Sprintf("payment confirmation failed: %v", e.Err)
}
func (e *PaymentConfirmError) Unwrap() error { return e.Err }
