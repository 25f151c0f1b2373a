package order

import (
	"errors"
	"fmt"

	"shop/internal/pkg/errs"
)

// ErrIllegalTransition classifies status transition failures so callers can
// distinguish them from authorization and validation errors.
var ErrIllegalTransition = errors.New("illegal status transition")

// IllegalTransitionError is returned when a requested status is not the
// unique successor of the order's current status.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from '%s' to '%s'", e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// Status represents the fulfillment stage of an order.
//
// The lifecycle is a strictly linear chain with no branches, skips, or
// backward moves:
//
//	pending -> processing -> shipped -> delivered
//
// Delivered is the terminal state. Each status has exactly one legal
// successor, so the transition rule is a total function from the current
// status to its next status (or none for the terminal state).
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned at order creation.
	Pending

	// Processing indicates the order has been accepted for fulfillment.
	Processing

	// Shipped indicates the order has left the warehouse.
	Shipped

	// Delivered indicates the order reached the customer.
	// This is the terminal state with no further transitions.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
	}
}

// StatusFromString parses a status from its wire representation.
// Returns a validation error for anything outside the four valid names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("'%s' is not a valid status", s))
}

// Validate checks if the Status value is one of the four valid stages.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase wire name of the status.
// It implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Next returns the unique legal successor of the status.
// ok is false for the terminal state and for invalid values.
func (s Status) Next() (next Status, ok bool) {
	switch s {
	case Pending:
		return Processing, true
	case Processing:
		return Shipped, true
	case Shipped:
		return Delivered, true
	default:
		return Unknown, false
	}
}

// IsTerminal reports whether the status has no legal successor.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// TransitionTo checks that target is the unique legal successor of the
// current status and returns it. Any other target, including the current
// status itself, fails with an IllegalTransitionError.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	next, ok := s.Next()
	if !ok || next != target {
		return Unknown, &IllegalTransitionError{From: s, To: target}
	}

	return next, nil
}
