package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// MakeHTTPHandleFunc binds a storage-aware handler to a store
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return response.InternalServerError(c, err.Error())
		}
		return nil
	}
}
