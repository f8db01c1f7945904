package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the public product routes and, behind auth, the
// catalog administration routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/franchise/:franchiseId", h.HandleGetByFranchise)
	productRoutes.Get("/type/:type", h.HandleGetByType)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// ProductRequest is the body of create and update calls.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,min=3,max=200"`
	Description   string          `json:"description" validate:"omitempty,max=1000"`
	Price         decimal.Decimal `json:"price"`
	Type          string          `json:"type" validate:"required,oneof=jersey cap flag accessory memorabilia"`
	ImageURL      string          `json:"image_url" validate:"omitempty,url"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	IsAvailable   *bool           `json:"is_available"`
	Size          string          `json:"size" validate:"omitempty,max=20"`
	Color         string          `json:"color" validate:"omitempty,max=50"`
	FranchiseID   string          `json:"franchise_id" validate:"required"`
}

func (r ProductRequest) toModel(id string) *models.Product {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return &models.Product{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Type:          models.ProductType(r.Type),
		ImageURL:      r.ImageURL,
		StockQuantity: r.StockQuantity,
		IsAvailable:   available,
		Size:          r.Size,
		Color:         r.Color,
		FranchiseID:   r.FranchiseID,
	}
}

func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondServiceError(c, h.logger, "Could not retrieve products", err)
	}
	return respond(c, fiber.StatusOK, "", products)
}

// HandleSearchProducts reads the q, type and franchise query parameters.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.UserContext(), c.Query("q"), c.Query("type"), c.Query("franchise"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid search", err.Error())
	}
	return respond(c, fiber.StatusOK, "", products)
}

func (h *ProductHandler) HandleGetByFranchise(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByFranchise(c.UserContext(), c.Params("franchiseId"))
	if err != nil {
		return respondServiceError(c, h.logger, "Could not retrieve products", err)
	}
	return respond(c, fiber.StatusOK, "", products)
}

func (h *ProductHandler) HandleGetByType(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByType(c.UserContext(), c.Params("type"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid product type", err.Error())
	}
	return respond(c, fiber.StatusOK, "", products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, h.logger, "Product not found", err)
	}
	return respond(c, fiber.StatusOK, "", product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product := req.toModel("")
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondServiceError(c, h.logger, "Could not create product", err)
	}
	return respond(c, fiber.StatusCreated, "Product created", product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product := req.toModel(c.Params("id"))
	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return respondServiceError(c, h.logger, "Could not update product", err)
	}
	return respond(c, fiber.StatusOK, "Product updated", product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondServiceError(c, h.logger, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
