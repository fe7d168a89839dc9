package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/monitoring"
	"event_hub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func toTicketOut(t *model.Ticket, event *model.Event) model.TicketOut {
	out := model.TicketOut{
		ID:            t.ID,
		EventId:       t.EventId,
		UserId:        t.UserId,
		Quantity:      t.Quantity,
		TotalPrice:    t.TotalPrice,
		PaymentStatus: t.PaymentStatus,
		PurchasesAt:   t.PurchasesAt,
		RefundAt:      t.RefundAt,
	}
	if event != nil {
		out.EventTitle = event.Title
	}
	return out
}

// PurchaseTicket opens a gateway checkout session for the requested
// quantity and returns its redirect URL.
func PurchaseTicket(gateway helper.PaymentGateway, holds *helper.TicketHoldStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, user, err := helper.GetInfoUserFromToken(c)
		if err != nil || user == nil {
			return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		}
		input, ok := c.Locals("purchaseInput").(*model.TicketPurchaseInput)
		if !ok {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
		}

		var event model.Event
		if err := database.DB.First(&event, input.EventId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
			}
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}
		if !event.IsActive {
			return utils.Fail(c, fiber.StatusBadRequest, "Event is no longer on sale")
		}

		session, err := helper.CreatePendingTicket(c.Context(), database.DB, holds, gateway,
			user, &event, input.Quantity, utils.FrontendURL())
		if err != nil {
			switch {
			case errors.Is(err, helper.ErrDuplicateActiveTicket):
				return utils.Fail(c, fiber.StatusConflict, "You already hold a ticket for this event")
			case errors.Is(err, helper.ErrInsufficientInventory):
				return utils.Fail(c, fiber.StatusConflict, "Not enough tickets available")
			case errors.Is(err, helper.ErrNotFound):
				return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
			default:
				log.Printf("checkout session failed for event %d: %v", event.ID, err)
				return utils.Fail(c, fiber.StatusBadGateway, "Payment provider unavailable")
			}
		}

		monitoring.CheckoutSessionsCreated.Inc()
		return utils.Success(c, fiber.StatusCreated, "Checkout session created", session)
	}
}

// PaymentWebhook receives signed gateway notifications. The raw body is
// verified before parsing; an invalid signature is rejected outright.
// Processing is idempotent, so the gateway may retry freely.
func PaymentWebhook(gateway *Gateway, holds *helper.TicketHoldStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := c.Body()
		event, err := gateway.VerifyWebhook(payload, c.Get("Webhook-Signature"))
		if err != nil {
			monitoring.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid signature")
		}

		switch event.Type {
		case constants.EVENT_CHECKOUT_COMPLETED:
			err = helper.ConfirmPaidSession(c.Context(), database.DB, holds, gateway,
				event.Data.Object.ID, event.Data.Object.PaymentIntent)
		case constants.EVENT_CHECKOUT_EXPIRED:
			err = helper.CancelExpiredSession(c.Context(), database.DB, holds, event.Data.Object.ID)
		default:
			monitoring.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
			return utils.Success(c, fiber.StatusOK, "Ignored", nil)
		}

		if err != nil {
			if errors.Is(err, helper.ErrNotFound) {
				// A session we never opened. Acknowledge so the gateway
				// stops retrying.
				monitoring.WebhookEvents.WithLabelValues(event.Type, "unmatched").Inc()
				return utils.Success(c, fiber.StatusOK, "No matching session", nil)
			}
			if errors.Is(err, helper.ErrInvariantViolation) || errors.Is(err, helper.ErrDuplicateActiveTicket) {
				monitoring.WebhookEvents.WithLabelValues(event.Type, "refunded").Inc()
				return utils.Success(c, fiber.StatusOK, "Payment refunded", nil)
			}
			monitoring.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
			log.Printf("webhook %s for session %s failed: %v", event.Type, event.Data.Object.ID, err)
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
		}

		monitoring.WebhookEvents.WithLabelValues(event.Type, "processed").Inc()
		return utils.Success(c, fiber.StatusOK, "Processed", nil)
	}
}

// VerifySession lets the success page poll the outcome of its checkout
// session without trusting the redirect alone.
func VerifySession(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return utils.Fail(c, fiber.StatusBadRequest, constants.ERROR_INPUT)
	}

	var ticket model.Ticket
	if err := database.DB.Preload("Event").
		Where("session_id = ? AND user_id = ?", sessionId, user.ID).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	return utils.Success(c, fiber.StatusOK, "OK", toTicketOut(&ticket, &ticket.Event))
}

// RefundTicket refunds the caller's ticket if it is still inside the
// refund window.
func RefundTicket(gateway helper.PaymentGateway) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, user, err := helper.GetInfoUserFromToken(c)
		if err != nil || user == nil {
			return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		}
		ticketId, ok := c.Locals("inputId").(uint)
		if !ok {
			return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
		}

		ticket, err := helper.RefundTicket(c.Context(), database.DB, gateway, ticketId, user.ID)
		if err != nil {
			switch {
			case errors.Is(err, helper.ErrNotFound):
				return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
			case errors.Is(err, helper.ErrNotRefundable):
				return utils.Fail(c, fiber.StatusBadRequest, "Ticket is not refundable")
			case errors.Is(err, helper.ErrRefundWindowExpired):
				return utils.Fail(c, fiber.StatusBadRequest, "Refund period has expired")
			default:
				log.Printf("refund for ticket %d failed: %v", ticketId, err)
				return utils.Fail(c, fiber.StatusBadGateway, "Payment provider unavailable")
			}
		}

		monitoring.RefundsProcessed.Inc()
		return utils.Success(c, fiber.StatusOK, "Ticket refunded", toTicketOut(ticket, nil))
	}
}

// MyTickets lists the caller's purchase history, newest first.
func MyTickets(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}

	var tickets []model.Ticket
	if err := database.DB.Preload("Event").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").Find(&tickets).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.TicketOut, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketOut(&tickets[i], &tickets[i].Event))
	}
	return utils.Success(c, fiber.StatusOK, "OK", out)
}

// GetMyTicket returns one ticket with an entry QR code when it is paid
// and unrefunded.
func GetMyTicket(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	ticketId, ok := c.Locals("inputId").(uint)
	if !ok {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS)
	}

	var ticket model.Ticket
	if err := database.DB.Preload("Event").
		Where("id = ? AND user_id = ?", ticketId, user.ID).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, constants.NOT_FOUND_RECORDS)
		}
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := toTicketOut(&ticket, &ticket.Event)
	if ticket.PaymentStatus == constants.PAYMENT_PAID && ticket.RefundAt == nil {
		content := fmt.Sprintf("ticket:%d:event:%d:user:%d", ticket.ID, ticket.EventId, user.ID)
		if png, err := utils.GenerateQRCode(content, 256); err == nil {
			out.QrCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		}
	}
	return utils.Success(c, fiber.StatusOK, "OK", out)
}

// MyPurchasedEvents lists the events the caller currently holds an
// active ticket for, lazily provisioning the chatroom for each.
func MyPurchasedEvents(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	page, limit := utils.PageParams(c, 12)

	base := database.DB.Model(&model.Event{}).
		Joins("JOIN tickets ON tickets.event_id = events.id").
		Where("tickets.user_id = ? AND tickets.payment_status = ? AND tickets.refund_at IS NULL",
			user.ID, constants.PAYMENT_PAID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var events []model.Event
	if err := base.Preload("Images").Preload("Manager").
		Order("events.event_date ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&events).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	out := make([]model.EventOut, 0, len(events))
	for i := range events {
		// Backstop for tickets sold before the room provisioning existed.
		if events[i].ManagerId != nil {
			if _, err := helper.EnsureRoom(database.DB, events[i].ID, *events[i].ManagerId, user.ID); err != nil {
				log.Printf("failed to provision chatroom for event %d: %v", events[i].ID, err)
			}
		}
		out = append(out, toEventOut(&events[i]))
	}
	return utils.Success(c, fiber.StatusOK, "OK", fiber.Map{
		"items": out,
		"meta":  model.NewPageMeta(page, limit, total),
	})
}

// MyCustomers lists buyers holding active tickets across the calling
// manager's events.
func MyCustomers(c *fiber.Ctx) error {
	_, user, err := helper.GetInfoUserFromToken(c)
	if err != nil || user == nil {
		return utils.Fail(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS)
	}
	if !helper.CanManageEvents(user) {
		return utils.Fail(c, fiber.StatusForbidden, constants.NOT_APPROVED_MANAGER)
	}

	type customerRow struct {
		UserId     uint   `json:"user_id"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		EventId    uint   `json:"event_id"`
		EventTitle string `json:"event_title"`
		Quantity   int64  `json:"quantity"`
	}

	page, limit := utils.PageParams(c, 20)

	base := database.DB.Model(&model.Ticket{}).
		Joins("JOIN events ON events.id = tickets.event_id").
		Joins("JOIN users ON users.id = tickets.user_id").
		Where("events.manager_id = ? AND tickets.payment_status = ? AND tickets.refund_at IS NULL",
			user.ID, constants.PAYMENT_PAID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	var rows []customerRow
	if err := base.
		Select("tickets.user_id, users.username, users.email, tickets.event_id, events.title AS event_title, tickets.quantity").
		Order("events.id, users.id").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR)
	}

	for _, row := range rows {
		if _, err := helper.EnsureRoom(database.DB, row.EventId, user.ID, row.UserId); err != nil {
			log.Printf("failed to provision chatroom for event %d: %v", row.EventId, err)
		}
	}

	return utils.Success(c, fiber.StatusOK, "OK", fiber.Map{
		"items": rows,
		"meta":  model.NewPageMeta(page, limit, total),
	})
}
