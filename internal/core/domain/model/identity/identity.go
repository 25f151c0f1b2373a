// Package identity defines the authenticated caller value passed explicitly
// into every use case. Authorization decisions read this value rather than any
// ambient request state, which keeps them pure and testable.
package identity

import (
	"errors"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/guard"
)

var ErrIdentityIsNotConstructed = errors.New("Identity must be created via NewIdentity constructor")

// Identity represents the authenticated caller of an operation: who they are
// and whether they hold the administrator role. It is supplied by the inbound
// adapter and never mutated by the core.
type Identity struct {
	userID  kernel.UUID
	isAdmin bool

	guard guard.ConstructorGuard
}

// NewIdentity creates an Identity for the given user.
// The user ID must be a valid UUID.
func NewIdentity(userID kernel.UUID, isAdmin bool) (Identity, error) {
	if err := userID.Validate(); err != nil {
		return Identity{}, err
	}

	return Identity{
		userID:  userID,
		isAdmin: isAdmin,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// UserID returns the identifier of the authenticated user.
func (i Identity) UserID() kernel.UUID {
	return i.userID
}

// IsAdmin reports whether the caller holds the administrator role.
func (i Identity) IsAdmin() bool {
	return i.isAdmin
}

// Validate ensures the Identity was created through NewIdentity.
func (i Identity) Validate() error {
	return i.guard.Validate(ErrIdentityIsNotConstructed)
}
