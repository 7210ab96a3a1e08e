package commands

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
)

// PromotePendingOrdersCommandHandler promotes pending orders that have aged
// past the configured threshold to Processing on behalf of the system actor.
//
// The scan and the promotions run in separate transactions: the candidate
// list is read first, then each order is re-read and promoted in its own
// transaction. An order that was cancelled, promoted by a vendor, or touched
// by a concurrent run between the scan and its own transaction is simply
// skipped. One failing order never aborts the batch; failures are logged and
// the remaining candidates are still processed.
type PromotePendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.StatusTransitionPolicy
	threshold  time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewPromotePendingOrdersCommandHandler creates a handler for the background
// promotion operation. The threshold is the minimum age a pending order must
// reach before it is promoted.
func NewPromotePendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	policy services.StatusTransitionPolicy,
	threshold time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) PromotePendingOrdersCommandHandler {
	return PromotePendingOrdersCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		threshold:  threshold,
		now:        now,
		logger:     logger,
	}
}

// Handle promotes every pending order created before now minus the threshold
// and returns how many orders were actually promoted. The operation is
// idempotent: a second run over the same data promotes nothing further.
func (h *PromotePendingOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd PromotePendingOrdersCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.now().UTC().Add(-h.threshold)
	candidates, err := h.scanCandidates(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, id := range candidates {
		ok, err := h.promoteOne(ctx, id)
		if err != nil {
			h.logger.Warn("failed to promote order, skipping",
				slog.String("order_id", id.String()),
				slog.Any("error", err),
			)
			continue
		}
		if ok {
			promoted++
		}
	}

	return promoted, nil
}

// scanCandidates reads the identifiers of all pending orders at least as old as the
// cutoff in a short read-only transaction.
func (h *PromotePendingOrdersCommandHandler) scanCandidates(
	ctx context.Context,
	cutoff time.Time,
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregates, err := uow.OrderRepository().GetAllPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(aggregates))
	for _, aggregate := range aggregates {
		ids = append(ids, aggregate.ID())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

// promoteOne re-reads a single order inside its own transaction and promotes
// it if it is still pending. Returns false when the order moved on in the
// meantime and no promotion happened.
func (h *PromotePendingOrdersCommandHandler) promoteOne(
	ctx context.Context,
	id kernel.UUID,
) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	decision := h.policy.Decide(aggregate.Status(), order.StatusProcessing, actor.RoleSystem)
	if !decision.Allowed || decision.NoOp {
		return false, nil
	}

	if err = aggregate.SetStatus(order.StatusProcessing, h.now()); err != nil {
		return false, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
