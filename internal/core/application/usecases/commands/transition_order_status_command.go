package commands

import (
	"errors"

	"shop/internal/core/domain/model/identity"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/guard"
)

var (
	ErrTransitionOrderStatusCommandIsNotConstructed = errors.New(
		"TransitionOrderStatusCommand must be created via NewTransitionOrderStatusCommand constructor",
	)
)

// TransitionOrderStatusCommand represents a request to advance an order to
// the next stage of the fulfillment pipeline.
type TransitionOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   identity.Identity
	target  order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrderStatusCommand creates a command to change an order's status.
// The target must be one of the four valid statuses; whether it is a legal
// transition for the order is decided by the aggregate when the command is
// handled.
func NewTransitionOrderStatusCommand(
	orderID kernel.UUID,
	actor identity.Identity,
	target order.Status,
) (TransitionOrderStatusCommand, error) {
	statusCommand := TransitionOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setActor(actor),
		statusCommand.setTarget(target),
	); err != nil {
		return TransitionOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the caller requesting the transition.
func (c TransitionOrderStatusCommand) Actor() identity.Identity {
	return c.actor
}

// Target returns the requested status.
func (c TransitionOrderStatusCommand) Target() order.Status {
	return c.target
}

func (c *TransitionOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderStatusCommand) setActor(actor identity.Identity) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *TransitionOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
