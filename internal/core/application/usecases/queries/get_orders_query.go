// Package queries contains read-only operations against the order store.
// Implements the Query side of the CQRS architecture: handlers read the
// database directly and return plain response structures, bypassing the
// aggregate and the unit of work.
package queries

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

const (
	// DefaultPageSize is used when the caller does not specify a limit.
	DefaultPageSize = 20

	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100
)

// GetOrdersQuery retrieves a page of orders visible to the requesting actor.
// Customers see only their own orders; vendors and admins see all orders.
// An optional status filter narrows the result.
//
// Example:
//
//	query, err := NewGetOrdersQuery(requestedBy, order.StatusPending, 20, 0)
//	if err != nil {
//	    return fmt.Errorf("invalid query: %w", err)
//	}
//
//	page, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	requestedBy  actor.Actor
	statusFilter order.Status
	ownedOnly    bool
	limit        int
	offset       int

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery creates a query to list orders. Pass order.StatusUnknown
// as the status filter to disable filtering. A non-positive limit falls back
// to DefaultPageSize; limits above MaxPageSize and negative offsets are
// rejected.
func NewGetOrdersQuery(
	requestedBy actor.Actor,
	statusFilter order.Status,
	limit, offset int,
) (GetOrdersQuery, error) {
	return newGetOrdersQuery(requestedBy, statusFilter, false, limit, offset)
}

// NewGetOwnOrdersQuery creates a query restricted to orders the requesting
// actor owns, regardless of role. Customers get this restriction either way;
// the explicit form backs the "my orders" view for elevated roles.
func NewGetOwnOrdersQuery(
	requestedBy actor.Actor,
	statusFilter order.Status,
	limit, offset int,
) (GetOrdersQuery, error) {
	return newGetOrdersQuery(requestedBy, statusFilter, true, limit, offset)
}

func newGetOrdersQuery(
	requestedBy actor.Actor,
	statusFilter order.Status,
	ownedOnly bool,
	limit, offset int,
) (GetOrdersQuery, error) {
	if err := requestedBy.Validate(); err != nil {
		return GetOrdersQuery{}, err
	}

	if statusFilter != order.StatusUnknown {
		if err := statusFilter.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return GetOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if offset < 0 {
		return GetOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	return GetOrdersQuery{
		requestedBy:  requestedBy,
		statusFilter: statusFilter,
		ownedOnly:    ownedOnly,
		limit:        limit,
		offset:       offset,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrdersQueryIsNotConstructed if validation fails.
func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// RequestedBy returns the actor the visibility rules apply to.
func (q GetOrdersQuery) RequestedBy() actor.Actor {
	return q.requestedBy
}

// OwnedOnly reports whether results are restricted to orders owned by the
// requesting actor.
func (q GetOrdersQuery) OwnedOnly() bool {
	return q.ownedOnly
}

// StatusFilter returns the status filter, or order.StatusUnknown when the
// query is unfiltered.
func (q GetOrdersQuery) StatusFilter() order.Status {
	return q.statusFilter
}

// Limit returns the page size.
func (q GetOrdersQuery) Limit() int {
	return q.limit
}

// Offset returns the number of rows skipped before the page starts.
func (q GetOrdersQuery) Offset() int {
	return q.offset
}

// OrderSummary is one row of a listing response. It carries enough for an
// overview screen; the detail query returns the full order.
type OrderSummary struct {
	ID          kernel.UUID
	OwnerID     kernel.UUID
	Status      order.Status
	TotalAmount decimal.Decimal
	ItemCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetOrdersQueryResponse is a page of order summaries plus the total number
// of rows matching the query before pagination.
type GetOrdersQueryResponse struct {
	Orders []OrderSummary
	Total  int64
	Limit  int
	Offset int
}
