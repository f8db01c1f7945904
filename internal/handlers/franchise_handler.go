package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/services"
)

type FranchiseHandler struct {
	service *services.FranchiseService
	logger  *zap.Logger
}

func NewFranchiseHandler(service *services.FranchiseService, logger *zap.Logger) *FranchiseHandler {
	return &FranchiseHandler{service: service, logger: logger}
}

func (h *FranchiseHandler) RegisterRoutes(router fiber.Router) {
	franchiseRoutes := router.Group("/franchises")
	franchiseRoutes.Get("/", h.HandleGetFranchises)
	franchiseRoutes.Get("/:id", h.HandleGetFranchiseByID)
}

func (h *FranchiseHandler) HandleGetFranchises(c *fiber.Ctx) error {
	franchises, err := h.service.GetActiveFranchises(c.UserContext())
	if err != nil {
		return respondServiceError(c, h.logger, "Could not retrieve franchises", err)
	}
	return respond(c, fiber.StatusOK, "", franchises)
}

func (h *FranchiseHandler) HandleGetFranchiseByID(c *fiber.Ctx) error {
	franchise, err := h.service.GetFranchiseByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, h.logger, "Franchise not found", err)
	}
	return respond(c, fiber.StatusOK, "", franchise)
}
