package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
)

// CancelOrderCommandHandler handles order cancellation. It loads the
// aggregate, asks the cancellation policy whether the requesting actor may
// cancel it, moves the order to Cancelled, and records who cancelled it in
// the order's notes.
//
// Like the status change handler, it retries the load-decide-save cycle once
// on an optimistic concurrency conflict.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.CancellationPolicy
	now        func() time.Time
}

// NewCancelOrderCommandHandler creates a handler for cancellation operations.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.CancellationPolicy,
	now func() time.Time,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        now,
	}
}

// Handle processes the cancellation command. Policy denials are returned as
// *services.CancellationForbiddenError, including attempts to cancel an
// order that is already in a terminal status.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.handleOnce(ctx, cmd)
	if errors.Is(err, errs.ErrConcurrencyConflict) {
		err = h.handleOnce(ctx, cmd)
	}
	return err
}

func (h *CancelOrderCommandHandler) handleOnce(ctx context.Context, cmd CancelOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	requestedBy := cmd.RequestedBy()
	now := h.now()
	if err = h.policy.Authorize(aggregate, requestedBy.ID(), requestedBy.Role(), now); err != nil {
		return err
	}

	if err = aggregate.SetStatus(order.StatusCancelled, now); err != nil {
		return err
	}

	note := fmt.Sprintf("cancelled by %s", requestedBy.Role())
	if err = aggregate.AddNote("CANCELLED", note, now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
