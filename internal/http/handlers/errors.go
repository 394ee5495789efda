package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

// respondError maps the service/ledger error taxonomy onto JSON responses.
// Business-rule failures come back as 400 with the message; a ledger
// invariant violation is a logic bug, logged and hidden behind a 500.
func respondError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, repos.ErrInsufficientStock):
		applog.Info(c, action, map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, repos.ErrInvariant):
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
