package validate

import (
	"strconv"

	"event_hub/constants"
	"event_hub/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetById parses a numeric path param and stashes it in Locals("inputId").
func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil || valueKey <= 0 {
			return utils.Fail(c, fiber.StatusBadRequest, constants.ERROR_INPUT)
		}

		c.Locals("inputId", uint(valueKey))
		return c.Next()
	}
}

// body parses and validates a JSON body into dst, then stashes it under
// the given Locals key.
func body[T any](localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(T)
		if err := c.BodyParser(input); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, constants.ERROR_INPUT)
		}
		if err := validate.Struct(input); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		c.Locals(localsKey, input)
		return c.Next()
	}
}
