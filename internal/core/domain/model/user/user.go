// Package user holds the read-only user entity. The core never registers or
// mutates users; it reads them to authorize operations and to attribute status
// changes in the tracking history.
package user

import (
	"errors"

	"shop/internal/core/domain/model/identity"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

// User is a customer or administrator account referenced by orders and status
// history entries.
type User struct {
	id      kernel.UUID
	name    string
	email   string
	isAdmin bool

	isConstructed bool
}

// NewUser creates a User with validation. Name and email are required.
func NewUser(id kernel.UUID, name string, email string, isAdmin bool) (*User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if email == "" {
		return nil, errs.NewValueIsRequiredError("email")
	}

	return &User{
		id:            id,
		name:          name,
		email:         email,
		isAdmin:       isAdmin,
		isConstructed: true,
	}, nil
}

// ID returns the user's unique identifier.
func (u *User) ID() kernel.UUID {
	return u.id
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.name
}

// Email returns the user's email address.
func (u *User) Email() string {
	return u.email
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.isAdmin
}

// Identity derives the caller identity for this user.
func (u *User) Identity() (identity.Identity, error) {
	if err := u.Validate(); err != nil {
		return identity.Identity{}, err
	}
	return identity.NewIdentity(u.id, u.isAdmin)
}

// Validate ensures the User was created through NewUser.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}
