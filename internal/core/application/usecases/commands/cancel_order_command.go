package commands

import (
	"errors"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel an order. Whether the
// requesting actor may do so is decided by the cancellation policy: vendors
// and admins can cancel any pending or processing order, the owning customer
// only their own pending order within the cancellation window.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order.
// Validates the order identifier and the requesting actor.
func NewCancelOrderCommand(orderID kernel.UUID, requestedBy actor.Actor) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequestedBy(requestedBy),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelOrderCommandIsNotConstructed if validation fails.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RequestedBy returns the actor asking for the cancellation.
func (c CancelOrderCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}
