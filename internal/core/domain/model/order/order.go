package order

import (
	"errors"
	"fmt"
	"time"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory functions.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order is the aggregate root for one purchase. It owns its lines, its
// monetary total, its fulfillment status, and the audit chain of every status
// change.
//
// Order maintains these invariants:
//   - at least one line, each with quantity >= 1
//   - total amount equals the sum of captured unit price times quantity over
//     all lines, computed once at creation and never recomputed
//   - status only moves along the forward-only transition chain
//   - the history chain is gap-free and its last entry matches the status
type Order struct {
	id          kernel.UUID
	customerID  kernel.UUID
	lines       []Line
	status      Status
	totalAmount kernel.Money
	history     []HistoryEntry

	isConstructed bool
}

// NewOrder creates an Order in pending status from validated lines.
//
// The total amount is computed here, exactly once, from the lines' captured
// unit prices. The creation audit entry (no from-status, to pending,
// attributed to the customer) is appended as part of construction so it is
// persisted in the same unit of work as the order itself.
func NewOrder(id kernel.UUID, customerID kernel.UUID, lines []Line) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errs.NewValueIsRequiredError("lines")
	}

	total := kernel.ZeroMoney()
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(line.Subtotal())
	}

	created, err := NewHistoryEntry(nil, Pending, customerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customerID:    customerID,
		lines:         append([]Line(nil), lines...),
		status:        Pending,
		totalAmount:   total,
		history:       []HistoryEntry{created},
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence.
// It revalidates the audit chain: the first entry must have no from-status,
// every entry's from-status must equal the previous entry's to-status, and
// the last entry's to-status must equal the order's current status.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	lines []Line,
	status Status,
	totalAmount kernel.Money,
	history []HistoryEntry,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, errs.NewValueIsRequiredError("lines")
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := totalAmount.Validate(); err != nil {
		return nil, err
	}
	if err := validateChain(history, status); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customerID:    customerID,
		lines:         append([]Line(nil), lines...),
		status:        status,
		totalAmount:   totalAmount,
		history:       append([]HistoryEntry(nil), history...),
		isConstructed: true,
	}, nil
}

// validateChain checks that history forms an unbroken audit chain ending in
// the current status.
func validateChain(history []HistoryEntry, current Status) error {
	if len(history) == 0 {
		return errs.NewValueIsRequiredError("status history")
	}

	for i, entry := range history {
		if err := entry.Validate(); err != nil {
			return err
		}

		from := entry.FromStatus()
		if i == 0 {
			if from != nil {
				return errs.NewValueIsInvalidErrorWithCause("status history",
					fmt.Errorf("first entry has from-status '%s'", *from))
			}
			continue
		}

		prev := history[i-1].ToStatus()
		if from == nil || *from != prev {
			return errs.NewValueIsInvalidErrorWithCause("status history",
				fmt.Errorf("entry %d does not continue from '%s'", i, prev))
		}
	}

	if last := history[len(history)-1].ToStatus(); last != current {
		return errs.NewValueIsInvalidErrorWithCause("status history",
			fmt.Errorf("last entry ends at '%s' but order status is '%s'", last, current))
	}

	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the owner of the order. It is immutable after creation.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Lines returns the order's line items.
func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

// Status returns the current fulfillment status.
func (o *Order) Status() Status {
	return o.status
}

// TotalAmount returns the total computed at creation.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// History returns the audit chain in chronological order.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// TransitionTo advances the order to the requested status and appends the
// matching audit entry attributed to changedBy.
//
// The request succeeds only when target is the unique legal successor of the
// current status; anything else, including repeating the current status,
// fails with an IllegalTransitionError and leaves the aggregate untouched.
func (o *Order) TransitionTo(target Status, changedBy kernel.UUID) error {
	if err := changedBy.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	from := o.status
	entry, err := NewHistoryEntry(&from, next, changedBy, time.Now().UTC())
	if err != nil {
		return err
	}

	o.status = next
	o.history = append(o.history, entry)
	return nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}
