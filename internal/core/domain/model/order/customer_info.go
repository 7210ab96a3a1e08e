package order

import (
	"errors"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

// ErrCustomerInfoIsNotConstructed is returned when a CustomerInfo instance was
// not created through the NewCustomerInfo factory function.
var ErrCustomerInfoIsNotConstructed = errors.New(
	"CustomerInfo must be created via NewCustomerInfo constructor",
)

// CustomerInfo is the customer contact snapshot captured at order creation.
// It is frozen at that moment and deliberately independent of the live user
// profile: later profile edits must not rewrite the history of where an
// order was shipped or who it was addressed to.
type CustomerInfo struct {
	name            string
	email           string
	phone           string
	shippingAddress string

	guard guard.ConstructorGuard
}

// NewCustomerInfo creates a validated contact snapshot.
// Name, email, and shipping address are required; phone is optional.
func NewCustomerInfo(name, email, phone, shippingAddress string) (CustomerInfo, error) {
	info := CustomerInfo{
		phone: phone,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		info.setName(name),
		info.setEmail(email),
		info.setShippingAddress(shippingAddress),
	); err != nil {
		return CustomerInfo{}, err
	}

	return info, nil
}

// Validate ensures the snapshot was created through the constructor.
func (c CustomerInfo) Validate() error {
	return c.guard.Validate(ErrCustomerInfoIsNotConstructed)
}

// Name returns the customer's name at order-creation time.
func (c CustomerInfo) Name() string {
	return c.name
}

// Email returns the customer's email at order-creation time.
func (c CustomerInfo) Email() string {
	return c.email
}

// Phone returns the customer's phone, or an empty string if none was given.
func (c CustomerInfo) Phone() string {
	return c.phone
}

// ShippingAddress returns the destination address for the order.
func (c CustomerInfo) ShippingAddress() string {
	return c.shippingAddress
}

func (c *CustomerInfo) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	c.name = name
	return nil
}

func (c *CustomerInfo) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}
	c.email = email
	return nil
}

func (c *CustomerInfo) setShippingAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("shippingAddress")
	}
	c.shippingAddress = address
	return nil
}
