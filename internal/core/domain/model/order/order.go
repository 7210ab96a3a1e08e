package order

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods. This ensures all
	// orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsTerminal is returned when a mutation is attempted on an order
	// whose status is Delivered or Cancelled.
	ErrOrderIsTerminal = errors.New("order is in a terminal status and cannot be modified")
)

// Order represents a customer order in the system. It is the aggregate root
// that owns its line items and manages the order lifecycle from creation
// through fulfillment to a terminal state.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and owner
//   - Must contain at least one line item
//   - Total amount is always the sum of item total prices
//   - Status transitions follow the lifecycle state machine
//   - Terminal orders (Delivered, Cancelled) are frozen
//   - Can only be created through the NewOrder constructor
//
// Who may request a given status change is outside the aggregate: the status
// transition and cancellation policies in the services package decide that.
// The aggregate only enforces structural consistency.
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// ownerID identifies the customer the order belongs to
	ownerID kernel.UUID

	// customerInfo is the contact snapshot captured at creation
	customerInfo CustomerInfo

	// items are the line items owned by this order
	items []Item

	// status represents the current state in the order lifecycle
	status Status

	// totalAmount is the sum of all item total prices
	totalAmount decimal.Decimal

	// trackingNumber is the carrier reference, empty until assigned
	trackingNumber string

	// notes accumulates free-form annotations in chronological order
	notes string

	// createdAt is the creation instant, always UTC
	createdAt time.Time

	// updatedAt is the last modification instant, always UTC
	updatedAt time.Time

	// version is the optimistic concurrency token managed by persistence
	version int

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates a new Order instance with validation. This is the only way
// to create a valid Order, ensuring all business invariants are maintained.
//
// The order starts in Pending status with its total amount computed from the
// given items. The now parameter stamps both creation and update times and is
// normalized to UTC.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - ownerID: Identifier of the owning customer (must be valid UUID)
//   - customerInfo: Validated contact snapshot
//   - items: Line items, at least one required
//   - now: Creation instant
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	customerInfo CustomerInfo,
	items []Item,
	now time.Time,
) (*Order, error) {
	order := &Order{
		status:        StatusPending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setOwnerID(ownerID),
		order.setCustomerInfo(customerInfo),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persisted state without running
// creation-time validation. It is intended for the persistence layer only;
// application code must use NewOrder.
func RestoreOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	customerInfo CustomerInfo,
	items []Item,
	status Status,
	totalAmount decimal.Decimal,
	trackingNumber string,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) *Order {
	return &Order{
		id:             id,
		ownerID:        ownerID,
		customerInfo:   customerInfo,
		items:          items,
		status:         status,
		totalAmount:    totalAmount,
		trackingNumber: trackingNumber,
		notes:          notes,
		createdAt:      createdAt.UTC(),
		updatedAt:      updatedAt.UTC(),
		version:        version,
		isConstructed:  true,
	}
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
// Orders are considered equal if they have the same ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OwnerID returns the identifier of the customer who placed the order.
func (o *Order) OwnerID() kernel.UUID {
	return o.ownerID
}

// CustomerInfo returns the contact snapshot captured at creation.
func (o *Order) CustomerInfo() CustomerInfo {
	return o.customerInfo
}

// Items returns a copy of the order's line items.
// Mutating the returned slice does not affect the order.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// TotalAmount returns the sum of all item total prices.
func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// TrackingNumber returns the carrier reference, or an empty string if none
// has been assigned yet.
func (o *Order) TrackingNumber() string {
	return o.trackingNumber
}

// Notes returns the accumulated annotations, oldest first.
func (o *Order) Notes() string {
	return o.notes
}

// CreatedAt returns the creation instant in UTC.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last modification instant in UTC.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic concurrency token. It reflects the persisted
// revision the aggregate was loaded from and is advanced by the repository on
// every successful save.
func (o *Order) Version() int {
	return o.version
}

// SetStatus moves the order to the given status and touches the update time.
//
// The aggregate only refuses to leave a terminal state; whether the
// transition itself is legal for the requesting actor is decided beforehand
// by the status transition policy. Setting the current status again is a
// no-op that does not touch the update time.
func (o *Order) SetStatus(status Status, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if status == o.status {
		return nil
	}

	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}

	o.status = status
	o.touch(now)
	return nil
}

// AssignTrackingNumber records the carrier reference for the order.
// Terminal orders cannot be modified.
func (o *Order) AssignTrackingNumber(trackingNumber string, now time.Time) error {
	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}

	o.trackingNumber = trackingNumber
	o.touch(now)
	return nil
}

// ChangeItems replaces the order's line items and recomputes the total
// amount. The replacement must leave at least one valid item, the same rule
// creation enforces. Terminal orders cannot be modified.
func (o *Order) ChangeItems(items []Item, now time.Time) error {
	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}

	if err := o.setItems(items); err != nil {
		return err
	}

	o.touch(now)
	return nil
}

// AddNote appends an annotation of the form "[LABEL] text" to the order's
// notes, separated from earlier notes by a newline. An empty label appends
// the text as is.
func (o *Order) AddNote(label, text string, now time.Time) error {
	if text == "" {
		return errs.NewValueIsRequiredError("note")
	}

	entry := text
	if label != "" {
		entry = fmt.Sprintf("[%s] %s", label, text)
	}

	if o.notes == "" {
		o.notes = entry
	} else {
		o.notes += "\n" + entry
	}
	o.touch(now)
	return nil
}

// CancelWindowRemaining returns how much of the customer's cancellation
// window is left at the given instant. The result is zero once the window
// has elapsed or when the order is no longer Pending.
func (o *Order) CancelWindowRemaining(window time.Duration, now time.Time) time.Duration {
	if o.status != StatusPending {
		return 0
	}

	remaining := window - now.UTC().Sub(o.createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Age returns how long ago the order was created relative to the given
// instant.
func (o *Order) Age(now time.Time) time.Duration {
	return now.UTC().Sub(o.createdAt)
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setOwnerID validates and sets the owning customer's identifier.
// This is a private method used only during construction.
func (o *Order) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	o.ownerID = ownerID
	return nil
}

// setCustomerInfo validates and sets the contact snapshot.
// This is a private method used only during construction.
func (o *Order) setCustomerInfo(customerInfo CustomerInfo) error {
	if err := customerInfo.Validate(); err != nil {
		return err
	}
	o.customerInfo = customerInfo
	return nil
}

// setItems validates the line items and derives the total amount.
// At least one item is required.
// Used during construction and by ChangeItems.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"items are invalid",
			errors.New("order must contain at least one item"),
		)
	}

	total := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		total = total.Add(item.TotalPrice())
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.totalAmount = total
	return nil
}
