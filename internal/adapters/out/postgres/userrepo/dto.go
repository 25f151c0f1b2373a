// Package userrepo provides persistence for user accounts.
// The order engine reads accounts to resolve the caller's role; writes
// happen during seeding.
package userrepo

import (
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO represents the database structure for user accounts.
type UserDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:""`
	Email   string    `gorm:"uniqueIndex"`
	IsAdmin bool      `gorm:""`
}

// TableName specifies the database table name for user accounts.
func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(aggregate *user.User) UserDTO {
	return UserDTO{
		ID:      aggregate.ID().Bytes(),
		Name:    aggregate.Name(),
		Email:   aggregate.Email(),
		IsAdmin: aggregate.IsAdmin(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return user.NewUser(id, dto.Name, dto.Email, dto.IsAdmin)
}
