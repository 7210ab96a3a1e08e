package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Builds the aggregate from the command's contact snapshot and line items
// and persists it in Pending status.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, time.Now)
//	cmd, _ := NewCreateOrderCommand(orderID, ownerID, name, email, phone, address, items)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence and a clock for
// stamping creation time.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	now func() time.Time,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle processes the order creation command.
// Constructs the domain items and contact snapshot, assembles the aggregate
// in Pending status, and persists it inside a transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	customerInfo, err := order.NewCustomerInfo(
		cmd.CustomerName(),
		cmd.CustomerEmail(),
		cmd.CustomerPhone(),
		cmd.ShippingAddress(),
	)
	if err != nil {
		return err
	}

	items := make([]order.Item, 0, len(cmd.Items()))
	for _, params := range cmd.Items() {
		item, err := order.NewItem(
			kernel.NewUUID(),
			params.ProductName,
			params.ProductSKU,
			params.ImageURL,
			params.Description,
			params.Quantity,
			params.UnitPrice,
		)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.OwnerID(), customerInfo, items, h.now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
