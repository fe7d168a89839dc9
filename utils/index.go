package utils

import (
	"event_hub/config"

	"github.com/gofiber/fiber/v2"
)

// Every response uses the same envelope. Clients treat success:false as
// the only failure signal, regardless of the transport status code.
func Success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success":    true,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":    false,
		"statusCode": status,
		"message":    message,
		"data":       nil,
	})
}

// PageParams reads ?page= and ?limit= with bounds.
func PageParams(c *fiber.Ctx, defaultLimit int) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

func Ptr[T any](v T) *T {
	return &v
}

// The admin account lives in env vars, not in the users table.
func AdminEmail() string {
	return config.Config("ADMIN_EMAIL")
}

func AdminPassword() string {
	return config.Config("ADMIN_PASSWORD")
}

func FrontendURL() string {
	return config.ConfigDefault("FRONTEND_URL", "http://localhost:3000")
}
