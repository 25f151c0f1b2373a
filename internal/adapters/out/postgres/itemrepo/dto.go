// Package itemrepo provides persistence for the product catalog.
// The order engine only reads from it; writes happen during seeding.
package itemrepo

import (
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO represents the database structure for catalog items.
type ItemDTO struct {
	ID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name  string          `gorm:""`
	Price decimal.Decimal `gorm:"type:numeric(12,2)"`
}

// TableName specifies the database table name for catalog items.
func (ItemDTO) TableName() string {
	return "items"
}

func fromDomain(aggregate *item.Item) ItemDTO {
	return ItemDTO{
		ID:    aggregate.ID().Bytes(),
		Name:  aggregate.Name(),
		Price: aggregate.Price().Amount(),
	}
}

func toDomain(dto ItemDTO) (*item.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoneyFromDecimal(dto.Price)
	if err != nil {
		return nil, err
	}

	return item.NewItem(id, dto.Name, price)
}
