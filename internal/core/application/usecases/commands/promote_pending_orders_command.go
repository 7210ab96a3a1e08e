package commands

import (
	"errors"

	"ordering/internal/pkg/guard"
)

var ErrPromotePendingOrdersCommandIsNotConstructed = errors.New(
	"PromotePendingOrdersCommand must be created via NewPromotePendingOrdersCommand constructor",
)

// PromotePendingOrdersCommand represents a request to promote all pending
// orders at least as old as the configured threshold to Processing. It is issued by
// the background scheduler and by admins through the manual trigger endpoint.
type PromotePendingOrdersCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewPromotePendingOrdersCommand creates a command to promote aged pending
// orders.
func NewPromotePendingOrdersCommand() (PromotePendingOrdersCommand, error) {
	return PromotePendingOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPromotePendingOrdersCommandIsNotConstructed if validation fails.
func (c PromotePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPromotePendingOrdersCommandIsNotConstructed)
}
