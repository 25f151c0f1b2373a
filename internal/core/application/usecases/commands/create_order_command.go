package commands

import (
	"errors"
	"fmt"

	"shop/internal/core/domain/model/identity"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
	"shop/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// LineRequest is one requested order line: a catalog item and a quantity.
// The unit price is not part of the request; it is resolved from the catalog
// when the command is handled.
type LineRequest struct {
	ItemID   kernel.UUID
	Quantity int
}

// CreateOrderCommand represents a request to place a new order for the
// authenticated customer. All lines must be valid or the whole command is
// rejected; no line is silently dropped.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   identity.Identity
	lines   []LineRequest

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place an order.
// Validates the order ID, the actor, that at least one line is requested,
// and that every line references an item and has a positive quantity.
func NewCreateOrderCommand(orderID kernel.UUID, actor identity.Identity, lines []LineRequest) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setActor(actor),
		orderCommand.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the authenticated customer placing the order.
func (c CreateOrderCommand) Actor() identity.Identity {
	return c.actor
}

// Lines returns the requested order lines.
func (c CreateOrderCommand) Lines() []LineRequest {
	return append([]LineRequest(nil), c.lines...)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setActor(actor identity.Identity) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}

	for i, line := range lines {
		if err := line.ItemID.Validate(); err != nil {
			return err
		}
		if line.Quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("line %d has quantity %d", i, line.Quantity))
		}
	}

	c.lines = append([]LineRequest(nil), lines...)
	return nil
}
