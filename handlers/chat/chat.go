package chat

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/model"
	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/middleware"
	"github.com/nicebott/docencia-api/utils/response"
	"github.com/nicebott/docencia-api/utils/validation"
)

// ChatHandler serves the chat message surface
type ChatHandler struct {
	store     services.MessageStore
	sender    *services.ChatStream
	validator *validation.Validator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(store services.MessageStore) *ChatHandler {
	return &ChatHandler{
		store:     store,
		sender:    services.NewChatStream(store),
		validator: validation.NewValidator(),
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// SendMessage handles POST /api/v1/chat/messages
//
// A message that is empty after trimming is rejected before the store is
// contacted; a store failure is reported as a failed delivery, never retried.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Chat session required")
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	err := h.sender.SendMessage(c.Context(), req.Text, identity.Username, identity.IsAdmin)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			return response.ValidationError(c, err)
		}
		return response.BadGateway(c, "Message could not be delivered")
	}
	return response.Created(c, fiber.Map{"sent": true})
}

// ListMessages handles GET /api/v1/chat/messages
//
// Returns the last window of messages ordered by timestamp. With ?before=<ts>
// only messages strictly older than ts are returned, which is how clients
// page backwards through history.
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	before, _ := strconv.ParseInt(c.Query("before", "0"), 10, 64)

	window, err := h.store.Window(c.Context(), services.MessagesPerPage)
	if err != nil {
		return response.BadGateway(c, "Chat store unavailable")
	}

	msgs := window
	if before > 0 {
		msgs = make([]model.ChatMessage, 0, len(window))
		for _, m := range window {
			if m.Timestamp < before {
				msgs = append(msgs, m)
			}
		}
	}
	services.SortMessages(msgs)

	return response.Success(c, fiber.Map{
		"messages": msgs,
		"count":    len(msgs),
	})
}

// UnreadCount handles GET /api/v1/chat/unread
//
// The closed-chat counter: messages within the trailing five-minute window.
func (h *ChatHandler) UnreadCount(c *fiber.Ctx) error {
	snap, err := h.store.Snapshot(c.Context())
	if err != nil {
		return response.BadGateway(c, "Chat store unavailable")
	}
	return response.Success(c, fiber.Map{
		"unread": services.CountUnread(snap, time.Now()),
	})
}
