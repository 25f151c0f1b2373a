// Package queries contains read-only operations for the CQRS read side.
// Query handlers bypass the domain aggregates and read projections straight
// from the database, returning response structs shaped for the API.
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
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery retrieves the orders visible to the caller.
// Administrators see every order; customers see only their own.
type GetOrdersQuery struct {
	actor identity.Identity

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a query scoped to the caller's role.
func NewGetOrdersQuery(actor identity.Identity) (GetOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetOrdersQuery{}, err
	}

	return GetOrdersQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Actor returns the caller the result set is scoped to.
func (q GetOrdersQuery) Actor() identity.Identity {
	return q.actor
}

// GetOrdersQueryResponse represents one order in a listing.
type GetOrdersQueryResponse struct {
	ID           kernel.UUID
	CustomerID   kernel.UUID
	CustomerName string
	Status       order.Status
	TotalAmount  kernel.Money
	CreatedAt    time.Time
	Lines        []OrderLineResponse
}

// OrderLineResponse represents one line within a listed order.
type OrderLineResponse struct {
	ItemID    kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}
