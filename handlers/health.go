package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// HandleCheckHealth answers GET /ping
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable")
	}
	return response.SuccessWithMessage(c, "pong", fiber.Map{"status": "ok"})
}
