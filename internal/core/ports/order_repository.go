package ports

import (
	"context"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An aggregate is always written whole: the order row, its lines, and any
// unpersisted audit entries go into storage in the same transaction.
type OrderRepository interface {
	// Add persists a new order aggregate with its lines and creation audit entry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a status change together with the audit entries the
	// aggregate appended since it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, including
	// its lines and full audit chain.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order like Get but locks its row for the
	// duration of the surrounding transaction, serializing concurrent status
	// transitions on the same order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
