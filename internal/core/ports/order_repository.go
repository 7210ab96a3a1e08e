package ports

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and age.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using the
	// aggregate's version as an optimistic concurrency token. If the stored
	// row has moved on since the aggregate was loaded, the update fails with
	// errs.ErrConcurrencyConflict and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, including
	// its line items. Returns errs.ErrObjectNotFound if no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllPendingCreatedBefore retrieves all orders still in Pending status
	// that were created at or before the given cutoff. Used by the
	// background promoter to find orders old enough to auto-promote.
	GetAllPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
