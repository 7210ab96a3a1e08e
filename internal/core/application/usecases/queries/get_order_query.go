package queries

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)

	// ErrOrderAccessDenied is returned when a customer asks for an order
	// they do not own.
	ErrOrderAccessDenied = errors.New("order access denied")
)

// GetOrderQuery retrieves the full detail of a single order, including its
// line items. Customers may only read their own orders; vendors and admins
// may read any order.
type GetOrderQuery struct {
	orderID     kernel.UUID
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to read one order.
// Validates the order identifier and the requesting actor.
func NewGetOrderQuery(orderID kernel.UUID, requestedBy actor.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), requestedBy.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID:     orderID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to read.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// RequestedBy returns the actor the visibility rules apply to.
func (q GetOrderQuery) RequestedBy() actor.Actor {
	return q.requestedBy
}

// OrderItemDetail is one line item of a detail response.
type OrderItemDetail struct {
	ID          kernel.UUID
	ProductName string
	ProductSKU  string
	ImageURL    string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// GetOrderQueryResponse is the full order detail. CancelWindowRemaining is
// how long the owning customer can still cancel; it is zero for orders past
// the window or no longer pending.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	OwnerID               kernel.UUID
	CustomerName          string
	CustomerEmail         string
	CustomerPhone         string
	ShippingAddress       string
	Status                order.Status
	TotalAmount           decimal.Decimal
	TrackingNumber        string
	Notes                 string
	Items                 []OrderItemDetail
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CancelWindowRemaining time.Duration
}
