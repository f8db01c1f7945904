package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/idempotency"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// HeaderIdempotencyKey lets a client retry POST /orders safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service          *services.OrderService
	idempotency      idempotency.Store
	placementTimeout time.Duration
	validate         *validator.Validate
	logger           *zap.Logger
}

// NewOrderHandler creates a new OrderHandler. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewOrderHandler(service *services.OrderService, idem idempotency.Store, placementTimeout time.Duration, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:          service,
		idempotency:      idem,
		placementTimeout: placementTimeout,
		validate:         validator.New(),
		logger:           logger,
	}
}

// RegisterRoutes registers the order routes. router must already require auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// PlaceOrderRequest is the body of POST /orders. The items come from the cart.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,max=500"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=100"`
}

// HandleGetOrders lists the authenticated user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, h.logger, "Could not retrieve orders", err)
	}
	return respond(c, fiber.StatusOK, "", orders)
}

// HandleGetOrderByID returns one of the authenticated user's orders. Orders
// of other users are reported as not found.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.ownOrder(c)
	if err != nil {
		return respondServiceError(c, h.logger, "Order not found", err)
	}
	return respond(c, fiber.StatusOK, "", order)
}

// HandlePlaceOrder turns the user's cart into an order.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	userID := middleware.UserID(c)
	key := c.Get(HeaderIdempotencyKey)
	if key == "" || h.idempotency == nil {
		return h.placeOrder(c, userID, req.ShippingAddress)
	}

	ctx := c.UserContext()
	orderID, started, err := h.idempotency.Begin(ctx, userID, key)
	if errors.Is(err, idempotency.ErrInProgress) {
		return respondError(c, fiber.StatusConflict, "Order could not be placed", err.Error())
	}
	if err != nil {
		// The cache is a convenience; place the order without it.
		h.logger.Warn("idempotency store unavailable", zap.Error(err))
		return h.placeOrder(c, userID, req.ShippingAddress)
	}
	if !started {
		order, err := h.service.GetOrderByID(ctx, orderID)
		if err != nil {
			return respondServiceError(c, h.logger, "Order not found", err)
		}
		return respond(c, fiber.StatusOK, "Order already placed", order)
	}

	order, err := h.place(c, userID, req.ShippingAddress)
	if err != nil {
		if abortErr := h.idempotency.Abort(ctx, userID, key); abortErr != nil {
			h.logger.Warn("failed to release idempotency key", zap.Error(abortErr))
		}
		return respondServiceError(c, h.logger, "Order could not be placed", err)
	}
	if err := h.idempotency.Complete(ctx, userID, key, order.ID); err != nil {
		h.logger.Warn("failed to store idempotency key", zap.String("order_id", order.ID), zap.Error(err))
	}
	return respond(c, fiber.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) placeOrder(c *fiber.Ctx, userID, shippingAddress string) error {
	order, err := h.place(c, userID, shippingAddress)
	if err != nil {
		return respondServiceError(c, h.logger, "Order could not be placed", err)
	}
	return respond(c, fiber.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) place(c *fiber.Ctx, userID, shippingAddress string) (*models.Order, error) {
	ctx := c.UserContext()
	if h.placementTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.placementTimeout)
		defer cancel()
	}
	return h.service.PlaceOrder(ctx, userID, shippingAddress)
}

// HandleUpdateOrderStatus updates the status of one of the user's orders.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if _, err := h.ownOrder(c); err != nil {
		return respondServiceError(c, h.logger, "Order not found", err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), req.Status, req.TrackingNumber)
	if err != nil {
		return respondServiceError(c, h.logger, "Could not update order status", err)
	}
	return respond(c, fiber.StatusOK, "Order status updated", order)
}

func (h *OrderHandler) ownOrder(c *fiber.Ctx) (*models.Order, error) {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if order.UserID != middleware.UserID(c) {
		return nil, fmt.Errorf("order with ID %s: %w", order.ID, repositories.ErrNotFound)
	}
	return order, nil
}
