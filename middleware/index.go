package middleware

import (
	"strings"

	"event_hub/constants"
	"event_hub/helper"
	"event_hub/utils"

	"github.com/gofiber/fiber/v2"
)

// Protected parses the bearer token and stashes it in Locals("user").
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.Fail(c, fiber.StatusUnauthorized, "Missing token")
		}

		jwtToken, err := helper.ParseToken(token)
		if err != nil || !jwtToken.Valid {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals("user", jwtToken)
		return c.Next()
	}
}

// AdminOnly rejects any identity that does not carry the admin role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, _, err := helper.GetInfoUserFromToken(c)
		if err != nil {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid token")
		}
		if !helper.IsAdmin(claim) {
			return utils.Fail(c, fiber.StatusForbidden, constants.NOT_ADMIN)
		}
		return c.Next()
	}
}
