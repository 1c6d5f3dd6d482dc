package handler

import (
	"github.com/eventsnap/eventsnap-backend/internal/middleware"
	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/internal/service"
	"github.com/eventsnap/eventsnap-backend/pkg/captcha"
	"github.com/eventsnap/eventsnap-backend/pkg/qrcode"
	"github.com/eventsnap/eventsnap-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type EventHandler struct {
	eventService *service.EventService
	captcha      *captcha.TurnstileService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, captcha *captcha.TurnstileService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		captcha:      captcha,
		validator:    validator,
	}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	event, err := h.eventService.CreateEvent(middleware.Principal(c), req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(event, "Event created successfully"))
}

// HostCreateEvent is the unauthenticated self-service flow: the caller gets
// an event plus a mailed host credential, no platform account needed.
func (h *EventHandler) HostCreateEvent(c *fiber.Ctx) error {
	var req models.HostCreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if h.captcha.Enabled() {
		if err := h.captcha.Verify(c.Context(), c.Get("X-Captcha-Token"), c.IP()); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Captcha verification failed"))
		}
	}

	resp, err := h.eventService.HostCreateEvent(req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(resp, "Event created successfully"))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.eventService.GetEvent(middleware.Principal(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event retrieved successfully"))
}

// GetPublicEvent serves the anonymous upload form and gallery header.
func (h *EventHandler) GetPublicEvent(c *fiber.Ctx) error {
	event, err := h.eventService.GetPublicEvent(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event retrieved successfully"))
}

func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	events, err := h.eventService.ListEvents(middleware.Principal(c), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(events, "Events retrieved successfully"))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	var req models.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if req.Settings != nil {
		if err := h.validator.Struct(req.Settings); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
	}

	event, err := h.eventService.UpdateEvent(middleware.Principal(c), c.Params("id"), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event updated successfully"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.eventService.DeleteEvent(middleware.Principal(c), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Event deleted successfully"))
}

func (h *EventHandler) GetEventStats(c *fiber.Ctx) error {
	stats, err := h.eventService.GetEventStats(middleware.Principal(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(stats, "Stats retrieved successfully"))
}

// GetQRCode returns a data URL by default; format=png serves the raw image.
func (h *EventHandler) GetQRCode(c *fiber.Ctx) error {
	size := c.QueryInt("size", qrcode.DefaultSize)

	if c.Query("format") == "png" {
		png, err := h.eventService.GetQRCodePNG(middleware.Principal(c), c.Params("id"), size)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(png)
	}

	qr, err := h.eventService.GetQRCode(middleware.Principal(c), c.Params("id"), size)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(qr, "QR code retrieved successfully"))
}

func (h *EventHandler) GetQRPackage(c *fiber.Ctx) error {
	pkg, err := h.eventService.GetQRPackage(middleware.Principal(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(pkg, "QR package retrieved successfully"))
}

func (h *EventHandler) RegenerateQRCode(c *fiber.Ctx) error {
	event, err := h.eventService.RegenerateQRCode(middleware.Principal(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "QR code regenerated successfully"))
}
