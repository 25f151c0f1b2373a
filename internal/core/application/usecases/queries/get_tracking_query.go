package queries

import (
	"errors"
	"time"

	"shop/internal/core/domain/model/identity"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/guard"
)

var (
	ErrGetTrackingQueryIsNotConstructed = errors.New(
		"GetTrackingQuery must be created via NewGetTrackingQuery constructor",
	)
)

// GetTrackingQuery retrieves the status history of a single order.
// Only the order's owner or an administrator may view it.
type GetTrackingQuery struct {
	orderID kernel.UUID
	actor   identity.Identity

	guard guard.ConstructorGuard
}

// NewGetTrackingQuery creates a tracking query for the given order on
// behalf of the given caller.
func NewGetTrackingQuery(orderID kernel.UUID, actor identity.Identity) (GetTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingQuery{}, err
	}
	if err := actor.Validate(); err != nil {
		return GetTrackingQuery{}, err
	}

	return GetTrackingQuery{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

// OrderID returns the order whose history is requested.
func (q GetTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Actor returns the caller requesting the history.
func (q GetTrackingQuery) Actor() identity.Identity {
	return q.actor
}

// GetTrackingQueryResponse is the tracking view of one order: its
// current status and the full, chronological status history.
type GetTrackingQueryResponse struct {
	OrderID kernel.UUID
	Status  order.Status
	History []TrackingEventResponse
}

// TrackingEventResponse is one recorded status change. FromStatus is
// nil for the creation event.
type TrackingEventResponse struct {
	FromStatus    *order.Status
	ToStatus      order.Status
	ChangedByID   kernel.UUID
	ChangedByName string
	OccurredAt    time.Time
}
