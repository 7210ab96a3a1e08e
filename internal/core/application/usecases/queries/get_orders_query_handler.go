package queries

import (
	"context"

	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrdersQueryHandler retrieves order listings from the database.
// Visibility is role based: customers are restricted to their own orders,
// vendors and admins see everything.
//
// Example:
//
//	handler := NewGetOrdersQueryHandler(db)
//	query, _ := NewGetOrdersQuery(requestedBy, order.StatusUnknown, 20, 0)
//
//	page, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to list orders: %v", err)
//	    return err
//	}
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the listing query. Results are sorted newest first; the
// response carries the total matching row count so clients can paginate.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) (GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersQueryResponse{}, err
	}

	where, args := h.buildFilter(query)

	var total int64
	if err := h.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM orders `+where, args...).
		Scan(&total).Error; err != nil {
		return GetOrdersQueryResponse{}, err
	}

	pageArgs := append(args, query.Limit(), query.Offset())
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.owner_id,
			o.status,
			o.total_amount,
			(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id) AS item_count,
			o.created_at,
			o.updated_at
		FROM orders o
		`+where+`
		ORDER BY o.created_at DESC, o.id
		LIMIT ? OFFSET ?
	`, pageArgs...).Rows()
	if err != nil {
		return GetOrdersQueryResponse{}, err
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0, query.Limit())
	for rows.Next() {
		var summary OrderSummary
		var id, ownerID uuid.UUID
		var status string
		var totalAmount decimal.Decimal

		if err = rows.Scan(
			&id,
			&ownerID,
			&status,
			&totalAmount,
			&summary.ItemCount,
			&summary.CreatedAt,
			&summary.UpdatedAt,
		); err != nil {
			return GetOrdersQueryResponse{}, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return GetOrdersQueryResponse{}, err
		}
		if summary.OwnerID, err = kernel.UUIDFromBytes(ownerID[:]); err != nil {
			return GetOrdersQueryResponse{}, err
		}
		if summary.Status, err = order.StatusFromString(status); err != nil {
			return GetOrdersQueryResponse{}, err
		}
		summary.TotalAmount = totalAmount
		summary.CreatedAt = summary.CreatedAt.UTC()
		summary.UpdatedAt = summary.UpdatedAt.UTC()

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return GetOrdersQueryResponse{}, err
	}

	return GetOrdersQueryResponse{
		Orders: summaries,
		Total:  total,
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}, nil
}

// buildFilter assembles the WHERE clause for the actor's visibility plus the
// optional status filter.
func (h GetOrdersQueryHandler) buildFilter(query GetOrdersQuery) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if query.RequestedBy().Role() == actor.RoleCustomer || query.OwnedOnly() {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, query.RequestedBy().ID().String())
	}

	if query.StatusFilter() != order.StatusUnknown {
		clauses = append(clauses, "status = ?")
		args = append(args, query.StatusFilter().String())
	}

	if len(clauses) == 0 {
		return "", args
	}

	where := "WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}
	return where, args
}
