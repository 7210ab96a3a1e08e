// Package http exposes the order workflow over a JSON API built on echo.
//
// The caller's identity arrives in the X-User-Id and X-User-Role headers,
// filled in by the authentication proxy in front of this service. The system
// role is never accepted from headers.
package http

import (
	"errors"
	"net/http"
	"time"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/actor"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  commands.CreateOrderCommandHandler
	updateStatusHandler commands.UpdateOrderStatusCommandHandler
	cancelOrderHandler  commands.CancelOrderCommandHandler
	promoteHandler      commands.PromotePendingOrdersCommandHandler

	// Query handlers
	getOrdersHandler queries.GetOrdersQueryHandler
	getOrderHandler  queries.GetOrderQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateStatusHandler commands.UpdateOrderStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	promoteHandler commands.PromotePendingOrdersCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:  createOrderHandler,
		updateStatusHandler: updateStatusHandler,
		cancelOrderHandler:  cancelOrderHandler,
		promoteHandler:      promoteHandler,
		getOrdersHandler:    getOrdersHandler,
		getOrderHandler:     getOrderHandler,
	}
}

// RegisterRoutes attaches all order endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/my", s.GetMyOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.PATCH("/orders/:id/cancel", s.CancelOrder)

	api.POST("/background/promote-pending", s.PromotePendingOrders)
}

// ErrorResponse is the JSON body returned for all failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderItem is one line item of an order creation request.
type NewOrderItem struct {
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewOrder is the order creation request body. OwnerID is optional and only
// honored for vendors and admins placing an order on a customer's behalf.
type NewOrder struct {
	OwnerID         string         `json:"owner_id,omitempty"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	CustomerPhone   string         `json:"customer_phone,omitempty"`
	ShippingAddress string         `json:"shipping_address"`
	Items           []NewOrderItem `json:"items"`
}

// OrderCreated is the order creation response body.
type OrderCreated struct {
	ID string `json:"id"`
}

// StatusUpdate is the status transition request body.
type StatusUpdate struct {
	Status         string `json:"status"`
	Note           string `json:"note,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// OrderSummary is one row of the listing response.
type OrderSummary struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderPage is the listing response body.
type OrderPage struct {
	Orders []OrderSummary `json:"orders"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// OrderItem is one line item of the detail response.
type OrderItem struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

// Order is the detail response body. CancelWindowRemainingSeconds is how long
// the owning customer can still cancel a pending order, zero otherwise.
type Order struct {
	ID                           string      `json:"id"`
	OwnerID                      string      `json:"owner_id"`
	CustomerName                 string      `json:"customer_name"`
	CustomerEmail                string      `json:"customer_email"`
	CustomerPhone                string      `json:"customer_phone,omitempty"`
	ShippingAddress              string      `json:"shipping_address"`
	Status                       string      `json:"status"`
	TotalAmount                  string      `json:"total_amount"`
	TrackingNumber               string      `json:"tracking_number,omitempty"`
	Notes                        string      `json:"notes,omitempty"`
	Items                        []OrderItem `json:"items"`
	CreatedAt                    time.Time   `json:"created_at"`
	UpdatedAt                    time.Time   `json:"updated_at"`
	CancelWindowRemainingSeconds int64       `json:"cancel_window_remaining_seconds"`
}

// PromotionResult is the manual promotion trigger response body.
type PromotionResult struct {
	Promoted int `json:"promoted"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	requestedBy, err := s.actorFromHeaders(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	ownerID := requestedBy.ID()
	if body.OwnerID != "" && requestedBy.Role().IsElevated() {
		if ownerID, err = kernel.UUIDFromString(body.OwnerID); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid owner id: " + err.Error(),
			})
		}
	}

	items := make([]commands.OrderItemParams, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, commands.OrderItemParams{
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			ImageURL:    item.ImageURL,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		ownerID,
		body.CustomerName,
		body.CustomerEmail,
		body.CustomerPhone,
		body.ShippingAddress,
		items,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data: " + err.Error(),
		})
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// GetOrders handles GET /api/v1/orders - lists orders visible to the caller.
// Supports status, limit, and offset query parameters.
func (s *Server) GetOrders(ctx echo.Context) error {
	return s.listOrders(ctx, queries.NewGetOrdersQuery)
}

// GetMyOrders handles GET /api/v1/orders/my - lists orders owned by the
// caller, whatever their role.
func (s *Server) GetMyOrders(ctx echo.Context) error {
	return s.listOrders(ctx, queries.NewGetOwnOrdersQuery)
}

func (s *Server) listOrders(
	ctx echo.Context,
	newQuery func(actor.Actor, order.Status, int, int) (queries.GetOrdersQuery, error),
) error {
	requestedBy, err := s.actorFromHeaders(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	statusFilter := order.StatusUnknown
	if raw := ctx.QueryParam("status"); raw != "" {
		if statusFilter, err = order.StatusFromString(raw); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid status filter: " + err.Error(),
			})
		}
	}

	var limit, offset int
	if err = echo.QueryParamsBinder(ctx).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid pagination parameters",
		})
	}

	query, err := newQuery(requestedBy, statusFilter, limit, offset)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	page, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	summaries := make([]OrderSummary, len(page.Orders))
	for i, summary := range page.Orders {
		summaries[i] = OrderSummary{
			ID:          summary.ID.String(),
			OwnerID:     summary.OwnerID.String(),
			Status:      summary.Status.String(),
			TotalAmount: summary.TotalAmount.StringFixed(2),
			ItemCount:   summary.ItemCount,
			CreatedAt:   summary.CreatedAt,
			UpdatedAt:   summary.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, OrderPage{
		Orders: summaries,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order with items.
func (s *Server) GetOrder(ctx echo.Context) error {
	requestedBy, err := s.actorFromHeaders(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderQuery(orderID, requestedBy)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid query: " + err.Error(),
		})
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	items := make([]OrderItem, len(detail.Items))
	for i, item := range detail.Items {
		items[i] = OrderItem{
			ID:          item.ID.String(),
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			ImageURL:    item.ImageURL,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
		}
	}

	return ctx.JSON(http.StatusOK, Order{
		ID:                           detail.ID.String(),
		OwnerID:                      detail.OwnerID.String(),
		CustomerName:                 detail.CustomerName,
		CustomerEmail:                detail.CustomerEmail,
		CustomerPhone:                detail.CustomerPhone,
		ShippingAddress:              detail.ShippingAddress,
		Status:                       detail.Status.String(),
		TotalAmount:                  detail.TotalAmount.StringFixed(2),
		TrackingNumber:               detail.TrackingNumber,
		Notes:                        detail.Notes,
		Items:                        items,
		CreatedAt:                    detail.CreatedAt,
		UpdatedAt:                    detail.UpdatedAt,
		CancelWindowRemainingSeconds: int64(detail.CancelWindowRemaining.Seconds()),
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - requests a
// status transition.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	requestedBy, err := s.actorFromHeaders(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var body StatusUpdate
	if err = ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	status, err := order.StatusFromString(body.Status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid status: " + err.Error(),
		})
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, requestedBy, status, body.Note, body.TrackingNumber)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid status update: " + err.Error(),
		})
	}

	if err = s.updateStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles PATCH /api/v1/orders/:id/cancel - cancels an order.
func (s *Server) CancelOrder(ctx echo.Context) error {
	requestedBy, err := s.actorFromHeaders(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, requestedBy)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid cancellation: " + err.Error(),
		})
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PromotePendingOrders handles POST /api/v1/background/promote-pending - runs
// one promotion sweep on demand. Admin only.
func (s *Server) PromotePendingOrders(ctx echo.Context) error {
	requestedBy, err := s.actorFromHeaders(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		})
	}

	if requestedBy.Role() != actor.RoleAdmin {
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: "Only admins may trigger promotion",
		})
	}

	cmd, err := commands.NewPromotePendingOrdersCommand()
	if err != nil {
		return s.writeError(ctx, err)
	}

	promoted, err := s.promoteHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PromotionResult{Promoted: promoted})
}

// actorFromHeaders builds the requesting actor from the identity headers.
// The system role is not parseable from headers, so external callers cannot
// impersonate the background promoter.
func (s *Server) actorFromHeaders(ctx echo.Context) (actor.Actor, error) {
	rawID := ctx.Request().Header.Get("X-User-Id")
	rawRole := ctx.Request().Header.Get("X-User-Role")
	if rawID == "" || rawRole == "" {
		return actor.Actor{}, errors.New("X-User-Id and X-User-Role headers are required")
	}

	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return actor.Actor{}, errors.New("X-User-Id header is not a valid UUID")
	}

	role, err := actor.RoleFromString(rawRole)
	if err != nil {
		return actor.Actor{}, errors.New("X-User-Role header is not a valid role")
	}

	return actor.NewActor(id, role)
}

// writeError maps application errors onto HTTP status codes.
func (s *Server) writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrForbiddenTransition),
		errors.Is(err, services.ErrCancellationForbidden),
		errors.Is(err, queries.ErrOrderAccessDenied):
		return ctx.JSON(http.StatusForbidden, ErrorResponse{
			Code:    http.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
