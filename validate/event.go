package validate

import (
	"event_hub/constants"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RequireEventManager rejects callers that are neither admin nor an
// approved event manager.
func RequireEventManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim, user, err := helper.GetInfoUserFromToken(c)
		if err != nil {
			return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		}
		if !helper.IsAdmin(claim) && !helper.CanManageEvents(user) {
			return utils.Fail(c, fiber.StatusForbidden, constants.NOT_APPROVED_MANAGER)
		}
		return c.Next()
	}
}

func CreateEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := new(model.EventCreateInput)
		if err := c.BodyParser(input); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, constants.ERROR_INPUT)
		}
		if err := validate.Struct(input); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		if input.TicketPrice.LessThanOrEqual(decimal.Zero) {
			return utils.Fail(c, fiber.StatusBadRequest, "ticket_price must be greater than zero")
		}
		c.Locals("eventInput", input)
		return c.Next()
	}
}

func UpdateEvent() fiber.Handler {
	return body[model.EventUpdateInput]("eventUpdateInput")
}
