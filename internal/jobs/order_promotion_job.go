package jobs

import (
	"context"
	"log/slog"

	"ordering/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OrderPromotionJob periodically promotes aged pending orders to processing.
// The schedule is a six field cron expression with a seconds field.
type OrderPromotionJob struct {
	handler  commands.PromotePendingOrdersCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderPromotionJob creates a job that runs the pending order promoter on
// the given schedule.
func NewOrderPromotionJob(
	handler commands.PromotePendingOrdersCommandHandler,
	schedule string,
	logger *slog.Logger,
) *OrderPromotionJob {
	return &OrderPromotionJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "order_promotion_job"),
	}
}

// Start begins running the promotion job on its schedule.
func (j *OrderPromotionJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewPromotePendingOrdersCommand()
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build promotion command", "error", err)
			return
		}

		promoted, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Order promotion job failed", "error", err)
			return
		}

		if promoted > 0 {
			j.logger.InfoContext(ctx, "Promoted pending orders", "count", promoted)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order promotion job started", "schedule", j.schedule)
	return nil
}

// Stop stops the promotion job.
func (j *OrderPromotionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order promotion job stopped")
}
