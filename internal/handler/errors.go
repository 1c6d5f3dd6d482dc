package handler

import (
	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// statusOf maps a service error classification to an HTTP status.
func statusOf(err error) int {
	switch models.KindOf(err) {
	case models.ErrKindValidation:
		return fiber.StatusBadRequest
	case models.ErrKindNotFound:
		return fiber.StatusNotFound
	case models.ErrKindAccessDenied:
		return fiber.StatusForbidden
	case models.ErrKindConflict:
		return fiber.StatusConflict
	case models.ErrKindUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func serviceError(c *fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(models.ErrorResponse(models.UserMessage(err)))
}
