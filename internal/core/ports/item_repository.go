package ports

import (
	"context"

	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"
)

// ItemRepository is the catalog gateway: it resolves an item identifier to
// the item's current unit price at order-creation time. The order engine only
// reads from it.
type ItemRepository interface {
	// Get retrieves a catalog item by its unique identifier.
	// Returns an ObjectNotFoundError when the item does not exist.
	Get(ctx context.Context, id kernel.UUID) (*item.Item, error)
}
