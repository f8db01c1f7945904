package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{service: service, validate: validator.New(), logger: logger}
}

// RegisterRoutes registers the cart routes. router must already require auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
}

// CartView is a cart together with its display total.
type CartView struct {
	*models.Cart
	Total string `json:"total"`
}

func newCartView(cart *models.Cart) CartView {
	return CartView{Cart: cart, Total: cart.Total().StringFixed(2)}
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondServiceError(c, h.logger, "Could not retrieve cart", err)
	}
	return respond(c, fiber.StatusOK, "", newCartView(cart))
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cart, err := h.service.AddToCart(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondServiceError(c, h.logger, "Could not add item to cart", err)
	}
	return respond(c, fiber.StatusOK, "Item added to cart", newCartView(cart))
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cart, err := h.service.UpdateCartItem(c.UserContext(), middleware.UserID(c), c.Params("productId"), req.Quantity)
	if err != nil {
		return respondServiceError(c, h.logger, "Could not update cart item", err)
	}
	return respond(c, fiber.StatusOK, "Cart item updated", newCartView(cart))
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveFromCart(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondServiceError(c, h.logger, "Could not remove cart item", err)
	}
	return respond(c, fiber.StatusOK, "Item removed from cart", newCartView(cart))
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondServiceError(c, h.logger, "Could not clear cart", err)
	}
	return respond(c, fiber.StatusOK, "Cart cleared", nil)
}
