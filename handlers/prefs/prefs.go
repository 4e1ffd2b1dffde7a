package prefs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/utils/cache"
	"github.com/nicebott/docencia-api/utils/response"
)

const darkModeKeyPrefix = "prefs:darkMode:"

type PrefsHandler struct {
	cache *cache.RedisCache
}

func NewPrefsHandler(redisCache *cache.RedisCache) *PrefsHandler {
	return &PrefsHandler{cache: redisCache}
}

func (h *PrefsHandler) clientKey(c *fiber.Ctx) (string, bool) {
	clientID := c.Get("X-Client-Id")
	if clientID == "" {
		return "", false
	}
	return darkModeKeyPrefix + clientID, true
}

// GetDarkMode handles GET /api/v1/preferences/dark-mode
//
// An absent or unparseable stored value reads as false.
func (h *PrefsHandler) GetDarkMode(c *fiber.Ctx) error {
	key, ok := h.clientKey(c)
	if !ok {
		return response.BadRequest(c, "X-Client-Id header is required")
	}

	darkMode := false
	raw, err := h.cache.Get(context.Background(), key)
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(raw), &darkMode); jsonErr != nil {
			darkMode = false
		}
	} else if !errors.Is(err, cache.ErrNotFound) {
		return response.BadGateway(c, "Preference store unavailable")
	}

	return response.Success(c, fiber.Map{"darkMode": darkMode})
}

type darkModeRequest struct {
	DarkMode bool `json:"darkMode"`
}

// SetDarkMode handles PUT /api/v1/preferences/dark-mode
func (h *PrefsHandler) SetDarkMode(c *fiber.Ctx) error {
	key, ok := h.clientKey(c)
	if !ok {
		return response.BadRequest(c, "X-Client-Id header is required")
	}

	var req darkModeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	encoded, err := json.Marshal(req.DarkMode)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if err := h.cache.Set(context.Background(), key, string(encoded), 0); err != nil {
		return response.BadGateway(c, "Preference store unavailable")
	}

	return response.Success(c, fiber.Map{"darkMode": req.DarkMode})
}
