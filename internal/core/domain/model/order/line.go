package order

import (
	"errors"
	"fmt"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/guard"
)

var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one catalog item within an order: the item reference, the ordered
// quantity, and the unit price captured from the catalog at creation time.
// The captured price is the value used for totals, decoupled from any later
// catalog price change. Lines are immutable once the order is created.
type Line struct {
	itemID    kernel.UUID
	quantity  int
	unitPrice kernel.Money

	guard guard.ConstructorGuard
}

// NewLine creates a Line with validation. Quantity must be at least 1 and the
// unit price must be a valid amount.
func NewLine(itemID kernel.UUID, quantity int, unitPrice kernel.Money) (Line, error) {
	if err := itemID.Validate(); err != nil {
		return Line{}, err
	}
	if quantity < 1 {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.Validate(); err != nil {
		return Line{}, err
	}

	return Line{
		itemID:    itemID,
		quantity:  quantity,
		unitPrice: unitPrice,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// ItemID returns the catalog item this line references.
func (l Line) ItemID() kernel.UUID {
	return l.itemID
}

// Quantity returns the ordered quantity.
func (l Line) Quantity() int {
	return l.quantity
}

// UnitPrice returns the unit price captured at order creation.
func (l Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

// Subtotal returns captured unit price multiplied by quantity.
func (l Line) Subtotal() kernel.Money {
	return l.unitPrice.MulInt(l.quantity)
}

// Validate ensures the Line was created through NewLine.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}
