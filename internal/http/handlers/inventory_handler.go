package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check answers GET /api/v1/availability?productId=...
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}

	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		return respondError(c, "api.availability", err)
	}
	return c.JSON(avail)
}
