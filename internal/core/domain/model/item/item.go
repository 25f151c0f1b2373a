// Package item holds the catalog item entity. The order engine treats the
// catalog as a read-only price oracle: items are resolved at order creation to
// snapshot their current unit price, and never modified here.
package item

import (
	"errors"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one purchasable catalog entry with its current unit price.
type Item struct {
	id    kernel.UUID
	name  string
	price kernel.Money

	isConstructed bool
}

// NewItem creates an Item with validation. The name is required and the price
// must be a valid non-negative amount.
func NewItem(id kernel.UUID, name string, price kernel.Money) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}

	return &Item{
		id:            id,
		name:          name,
		price:         price,
		isConstructed: true,
	}, nil
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// Name returns the item's display name.
func (i *Item) Name() string {
	return i.name
}

// Price returns the item's current unit price.
func (i *Item) Price() kernel.Money {
	return i.price
}

// Validate ensures the Item was created through NewItem.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}
