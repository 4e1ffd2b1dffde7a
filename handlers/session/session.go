package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/auth"
	"github.com/nicebott/docencia-api/utils/response"
	"github.com/nicebott/docencia-api/utils/validation"
)

type SessionHandler struct {
	gate       *services.SessionGate
	jwtManager *auth.JWTManager
	validator  *validation.Validator
}

func NewSessionHandler(gate *services.SessionGate, jwtManager *auth.JWTManager) *SessionHandler {
	return &SessionHandler{
		gate:       gate,
		jwtManager: jwtManager,
		validator:  validation.NewValidator(),
	}
}

type CreateSessionRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Password string `json:"password"`
}

// CreateSession handles POST /api/v1/chat/session
//
// A plain username is admitted as-is. The reserved name "admin" additionally
// requires the stored admin password to match exactly.
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	identity, err := h.gate.Resolve(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyUsername):
			return response.ValidationError(c, err)
		case errors.Is(err, services.ErrBadAdminPassword):
			return response.Unauthorized(c, "Incorrect admin password")
		default:
			return response.BadGateway(c, "Session could not be established")
		}
	}

	token, err := h.jwtManager.GenerateSessionToken(identity.Username, identity.IsAdmin)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue session token")
	}

	return response.Created(c, fiber.Map{
		"token":    token,
		"username": identity.Username,
		"isAdmin":  identity.IsAdmin,
	})
}
