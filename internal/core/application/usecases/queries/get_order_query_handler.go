package queries

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a single order with its line items from the
// database and applies the read access rules.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db, cancelWindow, time.Now)
//	query, _ := NewGetOrderQuery(orderID, requestedBy)
//
//	detail, err := handler.Handle(ctx, query)
//	if errors.Is(err, ErrOrderAccessDenied) {
//	    // requesting customer does not own this order
//	}
type GetOrderQueryHandler struct {
	db           *gorm.DB
	cancelWindow time.Duration
	now          func() time.Time
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
// The cancel window and clock are used to compute how long the owning
// customer can still cancel a pending order.
func NewGetOrderQueryHandler(
	db *gorm.DB,
	cancelWindow time.Duration,
	now func() time.Time,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		db:           db,
		cancelWindow: cancelWindow,
		now:          now,
	}
}

// Handle executes the detail query. Returns errs.ErrObjectNotFound when the
// order does not exist and ErrOrderAccessDenied when a customer asks for an
// order they do not own.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.readOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	requestedBy := query.RequestedBy()
	if requestedBy.Role() == actor.RoleCustomer && !response.OwnerID.IsEqual(requestedBy.ID()) {
		return GetOrderQueryResponse{}, ErrOrderAccessDenied
	}

	if response.Items, err = h.readItems(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.Status == order.StatusPending {
		elapsed := h.now().UTC().Sub(response.CreatedAt)
		if remaining := h.cancelWindow - elapsed; remaining > 0 {
			response.CancelWindowRemaining = remaining
		}
	}

	return response, nil
}

func (h GetOrderQueryHandler) readOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (GetOrderQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			owner_id,
			customer_name,
			customer_email,
			customer_phone,
			shipping_address,
			status,
			total_amount,
			tracking_number,
			notes,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.String()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderQueryResponse{}, err
		}
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	var response GetOrderQueryResponse
	var id, ownerID uuid.UUID
	var status string
	var totalAmount decimal.Decimal

	if err = rows.Scan(
		&id,
		&ownerID,
		&response.CustomerName,
		&response.CustomerEmail,
		&response.CustomerPhone,
		&response.ShippingAddress,
		&status,
		&totalAmount,
		&response.TrackingNumber,
		&response.Notes,
		&response.CreatedAt,
		&response.UpdatedAt,
	); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.OwnerID, err = kernel.UUIDFromBytes(ownerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Status, err = order.StatusFromString(status); err != nil {
		return GetOrderQueryResponse{}, err
	}
	response.TotalAmount = totalAmount
	response.CreatedAt = response.CreatedAt.UTC()
	response.UpdatedAt = response.UpdatedAt.UTC()

	return response, nil
}

func (h GetOrderQueryHandler) readItems(
	ctx context.Context,
	orderID kernel.UUID,
) ([]OrderItemDetail, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			product_name,
			product_sku,
			image_url,
			description,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemDetail, 0)
	for rows.Next() {
		var item OrderItemDetail
		var id uuid.UUID

		if err = rows.Scan(
			&id,
			&item.ProductName,
			&item.ProductSKU,
			&item.ImageURL,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
