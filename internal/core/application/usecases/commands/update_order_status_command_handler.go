package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler handles lifecycle transitions of orders.
// It loads the aggregate, asks the status transition policy whether the
// requesting actor may perform the move, applies it, and persists the result
// with optimistic concurrency.
//
// A concurrent modification between load and save surfaces as
// errs.ErrConcurrencyConflict from the repository; the handler retries the
// whole load-decide-save cycle once before giving up, so a single racing
// writer does not bubble up to the client.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.StatusTransitionPolicy
	now        func() time.Time
}

// NewUpdateOrderStatusCommandHandler creates a handler for status change
// operations.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.StatusTransitionPolicy,
	now func() time.Time,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		now:        now,
	}
}

// Handle processes the status change command. Policy denials are returned as
// *services.ForbiddenTransitionError; requesting the status a non-terminal
// order is already in succeeds without touching it.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	err := h.handleOnce(ctx, cmd)
	if errors.Is(err, errs.ErrConcurrencyConflict) {
		err = h.handleOnce(ctx, cmd)
	}
	return err
}

func (h *UpdateOrderStatusCommandHandler) handleOnce(ctx context.Context, cmd UpdateOrderStatusCommand) error {
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

	role := cmd.RequestedBy().Role()
	decision := h.policy.Decide(aggregate.Status(), cmd.Status(), role)
	if !decision.Allowed {
		return &services.ForbiddenTransitionError{
			From:   aggregate.Status(),
			To:     cmd.Status(),
			Role:   role,
			Reason: decision.Reason,
		}
	}

	if decision.NoOp {
		return uow.Commit(ctx)
	}

	now := h.now()
	if err = aggregate.SetStatus(cmd.Status(), now); err != nil {
		return err
	}

	if cmd.TrackingNumber() != "" {
		if err = aggregate.AssignTrackingNumber(cmd.TrackingNumber(), now); err != nil {
			return err
		}
	}

	if cmd.Note() != "" {
		label := strings.ToUpper(cmd.Status().String())
		if err = aggregate.AddNote(label, cmd.Note(), now); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
