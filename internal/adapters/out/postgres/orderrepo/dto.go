// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with indexes for
// the owner, status, and age lookups the application performs.
//
// Timestamps are managed by the domain, not the database, so GORM's automatic
// create/update time handling is disabled. Version is the optimistic
// concurrency token checked by Update.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;index"`
	CustomerName    string          `gorm:"type:varchar(255);not null"`
	CustomerEmail   string          `gorm:"type:varchar(255);not null"`
	CustomerPhone   string          `gorm:"type:varchar(64)"`
	ShippingAddress string          `gorm:"type:text;not null"`
	Status          string          `gorm:"type:varchar(20);index;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TrackingNumber  string          `gorm:"type:varchar(100)"`
	Notes           string          `gorm:"type:text"`
	Items           []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"index;autoCreateTime:false"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime:false"`
	Version         int             `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one persisted line item. Rows are rewritten as a
// set whenever the parent order is saved.
type OrderItemDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	ProductSKU  string          `gorm:"type:varchar(100)"`
	ImageURL    string          `gorm:"type:text"`
	Description string          `gorm:"type:text"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	itemDTOs := make([]OrderItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, OrderItemDTO{
			ID:          item.ID().Bytes(),
			OrderID:     aggregate.ID().Bytes(),
			ProductName: item.ProductName(),
			ProductSKU:  item.ProductSKU(),
			ImageURL:    item.ImageURL(),
			Description: item.Description(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
		})
	}

	info := aggregate.CustomerInfo()
	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		OwnerID:         aggregate.OwnerID().Bytes(),
		CustomerName:    info.Name(),
		CustomerEmail:   info.Email(),
		CustomerPhone:   info.Phone(),
		ShippingAddress: info.ShippingAddress(),
		Status:          aggregate.Status().String(),
		TotalAmount:     aggregate.TotalAmount(),
		TrackingNumber:  aggregate.TrackingNumber(),
		Notes:           aggregate.Notes(),
		Items:           itemDTOs,
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		Version:         aggregate.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including items using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	info, err := order.NewCustomerInfo(
		dto.CustomerName,
		dto.CustomerEmail,
		dto.CustomerPhone,
		dto.ShippingAddress,
	)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, itemErr := kernel.UUIDFromBytes(itemDTO.ID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(
			itemID,
			itemDTO.ProductName,
			itemDTO.ProductSKU,
			itemDTO.ImageURL,
			itemDTO.Description,
			itemDTO.Quantity,
			itemDTO.UnitPrice,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		ownerID,
		info,
		items,
		status,
		dto.TotalAmount,
		dto.TrackingNumber,
		dto.Notes,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	), nil
}
