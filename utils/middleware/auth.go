package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/auth"
	"github.com/nicebott/docencia-api/utils/response"
)

// AuthMiddleware validates chat session tokens
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Required is middleware that requires a valid session token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing session token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Session has expired")
			}
			return response.Unauthorized(c, "Invalid session token")
		}

		c.Locals("identity", services.Identity{
			Username: claims.Username,
			IsAdmin:  claims.IsAdmin,
		})

		return c.Next()
	}
}

// GetIdentity returns the resolved identity stored by Required.
func GetIdentity(c *fiber.Ctx) (services.Identity, bool) {
	id, ok := c.Locals("identity").(services.Identity)
	return id, ok
}
