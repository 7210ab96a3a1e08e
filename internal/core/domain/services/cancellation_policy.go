package services

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// DefaultCustomerCancelWindow is how long after creation a customer may
// cancel their own pending order unless configured otherwise.
const DefaultCustomerCancelWindow = 5 * time.Minute

// ErrCancellationForbidden is the sentinel wrapped by every CancellationForbiddenError.
var ErrCancellationForbidden = errors.New("cancellation is forbidden")

// CancellationForbiddenError explains why an actor may not cancel an order.
// It unwraps to ErrCancellationForbidden.
type CancellationForbiddenError struct {
	Status order.Status
	Role   actor.Role
	Detail string
}

// Error implements the error interface.
func (e *CancellationForbiddenError) Error() string {
	return fmt.Sprintf(
		"%s: order is %s, actor is %s (%s)",
		ErrCancellationForbidden, e.Status, e.Role, e.Detail,
	)
}

// Unwrap enables errors.Is checks against ErrCancellationForbidden.
func (e *CancellationForbiddenError) Unwrap() error {
	return ErrCancellationForbidden
}

// CancellationPolicy is a domain service that decides whether an actor may
// cancel a given order. Cancellation is deliberately separate from the
// status transition policy: it is a branch off the forward path with its own
// authorization rules.
//
// The rules it enforces:
//   - Only Pending and Processing orders can be cancelled
//   - Vendors and admins may cancel any such order
//   - A customer may cancel only their own order, only while it is Pending,
//     and only within the configured window after creation
//   - The system role never cancels
type CancellationPolicy struct {
	customerWindow time.Duration
}

// NewCancellationPolicy creates a CancellationPolicy with the given customer
// cancellation window. A non-positive window falls back to
// DefaultCustomerCancelWindow.
func NewCancellationPolicy(customerWindow time.Duration) CancellationPolicy {
	if customerWindow <= 0 {
		customerWindow = DefaultCustomerCancelWindow
	}
	return CancellationPolicy{customerWindow: customerWindow}
}

// CustomerWindow returns the configured customer cancellation window.
func (p CancellationPolicy) CustomerWindow() time.Duration {
	return p.customerWindow
}

// Authorize decides whether the actor may cancel the order at the given
// instant. It returns nil when cancellation is allowed and a
// *CancellationForbiddenError otherwise.
func (p CancellationPolicy) Authorize(
	o *order.Order,
	actorID kernel.UUID,
	role actor.Role,
	now time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}

	status := o.Status()
	if status != order.StatusPending && status != order.StatusProcessing {
		return &CancellationForbiddenError{
			Status: status,
			Role:   role,
			Detail: "only pending or processing orders can be cancelled",
		}
	}

	switch role {
	case actor.RoleVendor, actor.RoleAdmin:
		return nil

	case actor.RoleCustomer:
		if !o.OwnerID().IsEqual(actorID) {
			return &CancellationForbiddenError{
				Status: status,
				Role:   role,
				Detail: "customers may only cancel their own orders",
			}
		}
		if status != order.StatusPending {
			return &CancellationForbiddenError{
				Status: status,
				Role:   role,
				Detail: "customers may only cancel pending orders",
			}
		}
		if o.CancelWindowRemaining(p.customerWindow, now) <= 0 {
			return &CancellationForbiddenError{
				Status: status,
				Role:   role,
				Detail: fmt.Sprintf("the %s cancellation window has closed", p.customerWindow),
			}
		}
		return nil

	default:
		return &CancellationForbiddenError{
			Status: status,
			Role:   role,
			Detail: "role may not cancel orders",
		}
	}
}
