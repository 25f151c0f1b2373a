// Package http exposes the order API over HTTP. It coordinates between
// echo handlers and the application's command and query handlers, mapping
// domain errors to status codes and wrapping every payload in the same
// response envelope.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"shop/internal/core/application/usecases/commands"
	"shop/internal/core/application/usecases/queries"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// envelope is the uniform JSON shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Server handles HTTP requests for the order API.
type Server struct {
	createOrderHandler commands.CreateOrderCommandHandler
	transitionHandler  commands.TransitionOrderStatusCommandHandler

	getOrdersHandler   queries.GetOrdersQueryHandler
	getTrackingHandler queries.GetTrackingQueryHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionHandler commands.TransitionOrderStatusCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getTrackingHandler queries.GetTrackingQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler: createOrderHandler,
		transitionHandler:  transitionHandler,
		getOrdersHandler:   getOrdersHandler,
		getTrackingHandler: getTrackingHandler,
		logger:             logger,
	}
}

// RegisterRoutes attaches the order endpoints to the given group.
// The group is expected to carry the authentication middleware.
func (s *Server) RegisterRoutes(group *echo.Group) {
	group.POST("/orders", s.CreateOrder)
	group.GET("/orders", s.GetOrders)
	group.PATCH("/orders/:id/status", s.TransitionOrderStatus)
	group.GET("/orders/:id/tracking", s.GetTracking)
}

type orderLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type orderLineResponse struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type orderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name,omitempty"`
	Status       string              `json:"status"`
	TotalAmount  string              `json:"total_amount"`
	CreatedAt    time.Time           `json:"created_at,omitempty"`
	Items        []orderLineResponse `json:"items"`
}

type trackingActorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trackingEventResponse struct {
	FromStatus *string               `json:"from_status"`
	ToStatus   string                `json:"to_status"`
	ChangedBy  trackingActorResponse `json:"changed_by"`
	ChangedAt  time.Time             `json:"changed_at"`
}

type trackingResponse struct {
	OrderID         string                  `json:"order_id"`
	CurrentStatus   string                  `json:"current_status"`
	TrackingHistory []trackingEventResponse `json:"tracking_history"`
}

// CreateOrder handles POST /orders - places a new order for the caller.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, ok := IdentityFromContext(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	var request createOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, envelope{
			Success: false,
			Message: "invalid request body",
		})
	}

	lines := make([]commands.LineRequest, 0, len(request.Items))
	for _, item := range request.Items {
		itemID, err := kernel.UUIDFromString(item.ItemID)
		if err != nil {
			return ctx.JSON(http.StatusUnprocessableEntity, envelope{
				Success: false,
				Message: "invalid item id: " + item.ItemID,
			})
		}
		lines = append(lines, commands.LineRequest{ItemID: itemID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor, lines)
	if err != nil {
		return s.respondError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, envelope{
		Success: true,
		Message: "Order created successfully",
		Data:    orderToResponse(created),
	})
}

// GetOrders handles GET /orders - lists the caller's visible orders.
// Administrators see every order; customers see only their own.
func (s *Server) GetOrders(ctx echo.Context) error {
	actor, ok := IdentityFromContext(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	query, err := queries.NewGetOrdersQuery(actor)
	if err != nil {
		return s.respondError(ctx, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]orderLineResponse, 0, len(o.Lines))
		for _, line := range o.Lines {
			items = append(items, orderLineResponse{
				ItemID:    line.ItemID.String(),
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice.String(),
			})
		}

		response = append(response, orderResponse{
			ID:           o.ID.String(),
			CustomerID:   o.CustomerID.String(),
			CustomerName: o.CustomerName,
			Status:       o.Status.String(),
			TotalAmount:  o.TotalAmount.String(),
			CreatedAt:    o.CreatedAt,
			Items:        items,
		})
	}

	return ctx.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    response,
	})
}

// TransitionOrderStatus handles PATCH /orders/:id/status - moves an order
// one step forward in its lifecycle. Administrators only.
func (s *Server) TransitionOrderStatus(ctx echo.Context) error {
	actor, ok := IdentityFromContext(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "invalid order id",
		})
	}

	var request transitionRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, envelope{
			Success: false,
			Message: "invalid request body",
		})
	}

	target, err := order.StatusFromString(request.Status)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, actor, target)
	if err != nil {
		return s.respondError(ctx, err)
	}

	updated, err := s.transitionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope{
		Success: true,
		Message: "Order status updated successfully",
		Data:    orderToResponse(updated),
	})
}

// GetTracking handles GET /orders/:id/tracking - returns the order's status
// history. Owner or administrator only.
func (s *Server) GetTracking(ctx echo.Context) error {
	actor, ok := IdentityFromContext(ctx)
	if !ok {
		return unauthorized(ctx, "missing identity")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "invalid order id",
		})
	}

	query, err := queries.NewGetTrackingQuery(orderID, actor)
	if err != nil {
		return s.respondError(ctx, err)
	}

	tracking, err := s.getTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    trackingToResponse(tracking),
	})
}

func trackingToResponse(tracking queries.GetTrackingQueryResponse) trackingResponse {
	history := make([]trackingEventResponse, 0, len(tracking.History))
	for _, event := range tracking.History {
		var fromStatus *string
		if event.FromStatus != nil {
			from := event.FromStatus.String()
			fromStatus = &from
		}

		history = append(history, trackingEventResponse{
			FromStatus: fromStatus,
			ToStatus:   event.ToStatus.String(),
			ChangedBy: trackingActorResponse{
				ID:   event.ChangedByID.String(),
				Name: event.ChangedByName,
			},
			ChangedAt: event.OccurredAt,
		})
	}

	return trackingResponse{
		OrderID:         tracking.OrderID.String(),
		CurrentStatus:   tracking.Status.String(),
		TrackingHistory: history,
	}
}

// respondError maps domain errors to HTTP status codes. Access violations
// and missing objects stay distinguishable: a caller who may not see an
// order gets 403, not 404.
func (s *Server) respondError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrAccessDenied):
		return ctx.JSON(http.StatusForbidden, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, order.ErrIllegalTransition):
		return ctx.JSON(http.StatusConflict, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusUnprocessableEntity, envelope{Success: false, Message: err.Error()})
	default:
		s.logger.Error("request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
		return ctx.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Message: "internal server error",
		})
	}
}

func orderToResponse(o *order.Order) orderResponse {
	items := make([]orderLineResponse, 0, len(o.Lines()))
	for _, line := range o.Lines() {
		items = append(items, orderLineResponse{
			ItemID:    line.ItemID().String(),
			Quantity:  line.Quantity(),
			UnitPrice: line.UnitPrice().String(),
		})
	}

	return orderResponse{
		ID:          o.ID().String(),
		CustomerID:  o.CustomerID().String(),
		Status:      o.Status().String(),
		TotalAmount: o.TotalAmount().String(),
		CreatedAt:   o.History()[0].OccurredAt(),
		Items:       items,
	}
}
