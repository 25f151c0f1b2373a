package ports

import (
	"context"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/user"
)

// UserRepository is the identity gateway: it resolves a user identifier to
// the account record carrying the administrator role flag. The order engine
// only reads from it.
type UserRepository interface {
	// Get retrieves a user by its unique identifier.
	// Returns an ObjectNotFoundError when the user does not exist.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
}
