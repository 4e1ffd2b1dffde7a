package chat

import (
	"bufio"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/sse"
)

// Stream handles GET /api/v1/chat/stream
//
// An SSE connection is an open chat session: the full feed is subscribed and
// every store change pushes a fresh ordered snapshot. Disconnecting closes
// the session and drops the subscription synchronously.
func (h *ChatHandler) Stream(c *fiber.Ctx) error {
	// Set SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // Disable nginx buffering

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// The Fiber context is not valid inside the stream writer.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		stream := services.NewChatStream(h.store)
		if err := stream.Open(ctx); err != nil {
			sse.SendError(w, err)
			return
		}
		defer stream.Shutdown()

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case <-stream.Updates():
				if err := sse.SendSnapshot(w, stream.Messages()); err != nil {
					// Client went away; teardown via the deferred Shutdown.
					return
				}
			case <-keepalive.C:
				if err := sse.SendKeepAlive(w); err != nil {
					return
				}
			}
		}
	})
	return nil
}
