package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// OrderItemParams carries one line item of an order creation request.
// Product fields are snapshots supplied by the caller; deeper validation
// (quantity, price bounds) happens in the domain when the item is built.
type OrderItemParams struct {
	ProductName string
	ProductSKU  string
	ImageURL    string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateOrderCommand represents a request to place a new order on behalf of
// a customer. Encapsulates the owner, the contact snapshot, and the line
// items.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, ownerID,
//	    "Alice", "alice@example.com", "", "1 Main St",
//	    []OrderItemParams{{ProductName: "Widget", Quantity: 2, UnitPrice: price}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, time.Now)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	ownerID         kernel.UUID
	customerName    string
	customerEmail   string
	customerPhone   string
	shippingAddress string
	items           []OrderItemParams

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates that both identifiers are valid, the required contact fields are
// present, and at least one item was given. Returns an error if any
// validation fails.
func NewCreateOrderCommand(
	orderID, ownerID kernel.UUID,
	customerName, customerEmail, customerPhone, shippingAddress string,
	items []OrderItemParams,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		customerPhone: customerPhone,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setOwnerID(ownerID),
		orderCommand.setCustomerName(customerName),
		orderCommand.setCustomerEmail(customerEmail),
		orderCommand.setShippingAddress(shippingAddress),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OwnerID returns the identifier of the customer placing the order.
func (c CreateOrderCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

// CustomerName returns the customer's display name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// CustomerEmail returns the customer's contact email.
func (c CreateOrderCommand) CustomerEmail() string {
	return c.customerEmail
}

// CustomerPhone returns the customer's phone number, possibly empty.
func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// ShippingAddress returns the delivery destination.
func (c CreateOrderCommand) ShippingAddress() string {
	return c.shippingAddress
}

// Items returns the requested line items.
func (c CreateOrderCommand) Items() []OrderItemParams {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}

	c.ownerID = ownerID
	return nil
}

func (c *CreateOrderCommand) setCustomerName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	c.customerName = name
	return nil
}

func (c *CreateOrderCommand) setCustomerEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}

	c.customerEmail = email
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("shippingAddress")
	}

	c.shippingAddress = address
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemParams) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = items
	return nil
}
