package middleware

import (
	"strings"

	"github.com/eventsnap/eventsnap-backend/internal/models"
	jwtPkg "github.com/eventsnap/eventsnap-backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// Principal pulls the caller identity stored by the auth middlewares. Routes
// without either middleware see an anonymous principal.
func Principal(c *fiber.Ctx) models.Principal {
	if p, ok := c.Locals(principalKey).(models.Principal); ok {
		return p
	}
	return models.Anonymous()
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(message))
}

// AuthMiddleware requires a valid bearer token and stores the resulting
// principal in the request context.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := principalFromHeader(c.Get("Authorization"), jwtSecret)
		if err != nil {
			return unauthorized(c, err.Error())
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

// OptionalAuth resolves a bearer token when present but lets anonymous
// requests through. Used on the upload and public photo routes, where a host
// or organizer token widens what the caller may do.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(principalKey, models.Anonymous())
			return c.Next()
		}
		p, err := principalFromHeader(authHeader, jwtSecret)
		if err != nil {
			return unauthorized(c, err.Error())
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

func principalFromHeader(authHeader, jwtSecret string) (models.Principal, error) {
	if authHeader == "" {
		return models.Principal{}, authError("Authorization header is required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Principal{}, authError("Invalid authorization header format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := jwtPkg.ValidateToken(jwtSecret, tokenString)
	if err != nil {
		return models.Principal{}, authError("Invalid token")
	}

	role, _ := claims["role"].(string)
	switch role {
	case models.RoleHost:
		eventID, ok := claims["event_id"].(string)
		if !ok || eventID == "" {
			return models.Principal{}, authError("Invalid event ID in token")
		}
		return models.Principal{Role: models.RoleHost, EventPublicID: eventID}, nil
	case models.RoleOrganizer, models.RoleAdmin:
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return models.Principal{}, authError("Invalid user ID in token")
		}
		return models.Principal{Role: role, UserID: uint(userIDFloat)}, nil
	default:
		return models.Principal{}, authError("Invalid role in token")
	}
}
