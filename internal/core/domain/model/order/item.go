package order

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory function.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a line item owned exclusively by its parent Order. Product fields
// are snapshots copied at order-creation time, never live links into the
// catalog: catalog edits must not retroactively alter historical orders.
//
// Invariants:
//   - Quantity is at least 1
//   - Unit price is non-negative
//   - Total price is always quantity × unit price (derived, never stored
//     independently)
type Item struct {
	id          kernel.UUID
	productName string
	productSKU  string
	imageURL    string
	description string
	quantity    int
	unitPrice   decimal.Decimal

	isConstructed bool
}

// NewItem creates a validated line item. SKU, image reference, and
// description are optional snapshot fields; empty strings mean absent.
func NewItem(
	id kernel.UUID,
	productName, productSKU, imageURL, description string,
	quantity int,
	unitPrice decimal.Decimal,
) (Item, error) {
	item := Item{
		productSKU:    productSKU,
		imageURL:      imageURL,
		description:   description,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setProductName(productName),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through the constructor.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ID returns the item's unique identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// ProductName returns the snapshotted product name.
func (i Item) ProductName() string {
	return i.productName
}

// ProductSKU returns the snapshotted SKU, or an empty string if none.
func (i Item) ProductSKU() string {
	return i.productSKU
}

// ImageURL returns the snapshotted image reference, or an empty string if none.
func (i Item) ImageURL() string {
	return i.imageURL
}

// Description returns the snapshotted product description, or an empty string if none.
func (i Item) Description() string {
	return i.description
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the snapshotted unit price.
func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// TotalPrice returns quantity × unit price.
func (i Item) TotalPrice() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setProductName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	i.productName = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is not greater than or equal to 1", quantity),
		)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(
			"unitPrice is invalid",
			fmt.Errorf("%s is negative", unitPrice),
		)
	}
	i.unitPrice = unitPrice
	return nil
}
