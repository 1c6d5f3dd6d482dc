package handler

import (
	"github.com/eventsnap/eventsnap-backend/internal/models"
	"github.com/eventsnap/eventsnap-backend/internal/service"
	"github.com/eventsnap/eventsnap-backend/pkg/captcha"
	"github.com/eventsnap/eventsnap-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
	captcha     *captcha.TurnstileService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, captcha *captcha.TurnstileService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		captcha:     captcha,
		validator:   validator,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
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

	resp, err := h.authService.Register(req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(resp, "Registration successful"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(resp, "Login successful"))
}

// HostLogin exchanges an event ID and password for an event-scoped token.
func (h *AuthHandler) HostLogin(c *fiber.Ctx) error {
	var req models.HostLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.authService.HostLogin(req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(resp, "Login successful"))
}
