package commands

import (
	"context"

	"shop/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order placement.
// For each requested line it resolves the item's current unit price from the
// catalog, captures that price on the line, and persists the order, its lines,
// and the creation audit entry as one transaction. A failure resolving any
// single item rolls back the whole order.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires a UoWFactory providing catalog reads and order writes in one transaction.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order placement command and returns the created
// aggregate with its lines and initial audit entry.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	itemRepo := uow.ItemRepository()

	requests := cmd.Lines()
	lines := make([]order.Line, 0, len(requests))
	for _, req := range requests {
		catalogItem, err := itemRepo.Get(ctx, req.ItemID)
		if err != nil {
			return nil, err
		}

		line, err := order.NewLine(req.ItemID, req.Quantity, catalogItem.Price())
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.Actor().UserID(), lines)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
