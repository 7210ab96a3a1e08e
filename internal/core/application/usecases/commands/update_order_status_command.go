package commands

import (
	"errors"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand represents a request to move an order along its
// lifecycle. The requesting actor's role determines whether the transition
// is permitted; the optional note and tracking number are recorded on the
// order when the transition succeeds.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	requestedBy    actor.Actor
	status         order.Status
	note           string
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to change an order's status.
// Validates the order identifier, the requesting actor, and the target
// status. Note and tracking number are optional; empty strings mean absent.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	requestedBy actor.Actor,
	status order.Status,
	note string,
	trackingNumber string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		note:           note,
		trackingNumber: trackingNumber,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRequestedBy(requestedBy),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to update.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RequestedBy returns the actor asking for the transition.
func (c UpdateOrderStatusCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

// Status returns the requested target status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// Note returns the optional annotation to record, possibly empty.
func (c UpdateOrderStatusCommand) Note() string {
	return c.note
}

// TrackingNumber returns the optional carrier reference, possibly empty.
func (c UpdateOrderStatusCommand) TrackingNumber() string {
	return c.trackingNumber
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
