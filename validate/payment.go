package validate

import (
	"event_hub/model"

	"github.com/gofiber/fiber/v2"
)

func PurchaseTicket() fiber.Handler {
	return body[model.TicketPurchaseInput]("purchaseInput")
}
