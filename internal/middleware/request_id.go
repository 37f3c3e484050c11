package middleware

import (
	"worksheet-studio/internal/util"

	"github.com/gofiber/fiber/v2"
)

// RequestIDKey is the locals key and response header carrying the
// per-request id.
const RequestIDKey = "request_id"

// RequestID attaches a ULID to every request so log lines for one call
// can be correlated. An inbound X-Request-ID header is honored if present.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = util.NewULID()
		}
		c.Locals(RequestIDKey, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}
