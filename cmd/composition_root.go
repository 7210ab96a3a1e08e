package cmd

import (
	"log/slog"
	"time"

	httpin "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/postgres"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/services"
	"ordering/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, policies, and use case handlers together.
// All handlers share the same unit of work factory and wall clock.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
	clock      func() time.Time
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		clock:      time.Now,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.orderUoWFactory(),
		services.NewStatusTransitionPolicy(),
		c.clock,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.orderUoWFactory(),
		services.NewCancellationPolicy(c.config.CustomerCancelWindow),
		c.clock,
	)
}

func (c *CompositionRoot) CreatePromotePendingOrdersCommandHandler() commands.PromotePendingOrdersCommandHandler {
	return commands.NewPromotePendingOrdersCommandHandler(
		c.orderUoWFactory(),
		services.NewStatusTransitionPolicy(),
		c.config.PromotionThreshold,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.config.CustomerCancelWindow, c.clock)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreatePromotePendingOrdersCommandHandler(),
		c.config.PromotionSchedule,
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreatePromotePendingOrdersCommandHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
