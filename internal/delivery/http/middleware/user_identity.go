package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// UserIdentity extracts the opaque user identifier from the X-User-ID header
// and stores it in the request locals. Authentication itself is handled by an
// upstream gateway; this service only needs the identity for collection
// scoping.
func UserIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "X-User-ID header is required",
			})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}
