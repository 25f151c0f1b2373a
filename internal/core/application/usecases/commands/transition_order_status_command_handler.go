package commands

import (
	"context"

	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"
)

// TransitionOrderStatusCommandHandler handles the business logic for status
// transitions. Only administrators may transition orders; any admin may
// transition any order.
//
// The order row is read under a row-level lock so the legality check is
// evaluated against a status that cannot change before the write commits.
// Concurrent transitions on the same order serialize; different orders are
// independent.
type TransitionOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTransitionOrderStatusCommandHandler creates a handler for status transitions.
// Requires an OrderUoWFactory for transactional persistence.
func NewTransitionOrderStatusCommandHandler(uowFactory OrderUoWFactory) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command and returns the updated aggregate
// with its lines and full audit chain.
//
// The authorization check runs before any order state is touched, so a
// non-admin caller gets an access-denied error rather than an illegal
// transition or not-found error.
func (h *TransitionOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if !cmd.Actor().IsAdmin() {
		return nil, errs.NewAccessDeniedError("order status can only be changed by an administrator")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.TransitionTo(cmd.Target(), cmd.Actor().UserID()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
