package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userIDKey = "userID"

// RequireAuth verifies the bearer token and stores the caller's id in
// c.Locals for the handlers behind it.
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if header == "" || token == header {
		return errorJSON(c, fiber.StatusUnauthorized, "missing bearer token")
	}
	user, err := h.auth.Verify(token)
	if err != nil {
		h.log.Debug("token rejected", zap.Error(err))
		return errorJSON(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(userIDKey, user.ID)
	return c.Next()
}

func userID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(userIDKey).(uuid.UUID)
	return id
}
