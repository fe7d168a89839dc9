package helper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"event_hub/constants"
	"event_hub/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundWindow is how long after purchase a buyer may self-refund.
const RefundWindow = 24 * time.Hour

// CheckoutSessionTTL bounds how long a checkout session (and its
// inventory hold) stays alive before the gateway expires it.
const CheckoutSessionTTL = time.Hour

// PaymentGateway is the slice of the payment provider the ticket
// lifecycle needs. The concrete client lives in the handler package.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params model.CheckoutParams) (*model.CheckoutSession, error)
	CreateRefund(ctx context.Context, paymentIntentId string) (*model.Refund, error)
}

// HasActiveTicket reports whether the user holds a paid, unrefunded
// ticket for the event.
func HasActiveTicket(db *gorm.DB, eventId, userId uint) (bool, error) {
	var count int64
	err := db.Model(&model.Ticket{}).
		Where("event_id = ? AND user_id = ? AND payment_status = ? AND refund_at IS NULL",
			eventId, userId, constants.PAYMENT_PAID).
		Count(&count).Error
	return count > 0, err
}

// CreatePendingTicket opens a gateway checkout session for the purchase
// and records a pending ticket keyed by the session id. The quantity is
// held in redis for the session's lifetime so concurrent checkouts see
// shrunk availability.
func CreatePendingTicket(ctx context.Context, db *gorm.DB, holds *TicketHoldStore, gateway PaymentGateway, user *model.User, event *model.Event, quantity int64, frontendUrl string) (*model.CheckoutSessionOut, error) {
	active, err := HasActiveTicket(db, event.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrDuplicateActiveTicket
	}

	if _, err := ReserveCheck(ctx, db, holds, event.ID, quantity); err != nil {
		return nil, err
	}

	total := event.TicketPrice.Mul(decimal.NewFromInt(quantity))
	expiresAt := time.Now().Add(CheckoutSessionTTL)

	session, err := gateway.CreateCheckoutSession(ctx, model.CheckoutParams{
		Amount:      total.Mul(decimal.NewFromInt(100)).IntPart(),
		Quantity:    quantity,
		ProductName: event.Title,
		Description: fmt.Sprintf("%d ticket(s) for %s", quantity, event.Title),
		SuccessURL:  frontendUrl + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   frontendUrl + "/payment/cancel",
		Metadata: map[string]string{
			"event_id": fmt.Sprint(event.ID),
			"user_id":  fmt.Sprint(user.ID),
		},
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	ticket := model.Ticket{
		EventId:       event.ID,
		UserId:        &user.ID,
		Quantity:      quantity,
		TotalPrice:    total,
		PaymentStatus: constants.PAYMENT_PENDING,
		SessionId:     session.ID,
	}
	if err := db.Create(&ticket).Error; err != nil {
		return nil, err
	}

	if err := holds.Hold(ctx, event.ID, session.ID, quantity, CheckoutSessionTTL); err != nil {
		log.Printf("failed to hold inventory for session %s: %v", session.ID, err)
	}

	return &model.CheckoutSessionOut{SessionId: session.ID, CheckoutUrl: session.URL}, nil
}

// ConfirmPaidSession settles a completed checkout session. The pending
// to paid flip is a conditional UPDATE so replayed webhooks are no-ops.
// The sale is committed and the buyer's chatroom opened in the same
// transaction; if inventory was overcommitted while the session was
// open, the payment is refunded instead of honored.
func ConfirmPaidSession(ctx context.Context, db *gorm.DB, holds *TicketHoldStore, gateway PaymentGateway, sessionId, paymentIntentId string) error {
	var ticket model.Ticket
	if err := db.Where("session_id = ?", sessionId).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if ticket.PaymentStatus != constants.PAYMENT_PENDING {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.Ticket{}).
			Where("session_id = ? AND payment_status = ?", sessionId, constants.PAYMENT_PENDING).
			Updates(map[string]interface{}{
				"payment_status":    constants.PAYMENT_PAID,
				"payment_intent_id": paymentIntentId,
				"purchases_at":      now,
			})
		if res.Error != nil {
			if isDuplicateActiveTicket(res.Error) {
				return ErrDuplicateActiveTicket
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := CommitSale(tx, ticket.EventId, ticket.Quantity); err != nil {
			return err
		}

		var event model.Event
		if err := tx.First(&event, ticket.EventId).Error; err != nil {
			return err
		}
		if event.ManagerId != nil && ticket.UserId != nil {
			if _, err := EnsureRoom(tx, event.ID, *event.ManagerId, *ticket.UserId); err != nil {
				return err
			}
		}
		return nil
	})

	if releaseErr := holds.Release(ctx, ticket.EventId, sessionId); releaseErr != nil {
		log.Printf("failed to release hold for session %s: %v", sessionId, releaseErr)
	}

	if errors.Is(err, ErrInvariantViolation) || errors.Is(err, ErrDuplicateActiveTicket) {
		return reconcileFailedConfirm(ctx, db, gateway, &ticket, paymentIntentId, err)
	}
	return err
}

// reconcileFailedConfirm refunds a payment that can no longer be
// honored and records the ticket as refunded.
func reconcileFailedConfirm(ctx context.Context, db *gorm.DB, gateway PaymentGateway, ticket *model.Ticket, paymentIntentId string, cause error) error {
	refund, refundErr := gateway.CreateRefund(ctx, paymentIntentId)
	if refundErr != nil {
		log.Printf("failed to auto-refund session %s after %v: %v", ticket.SessionId, cause, refundErr)
		return refundErr
	}

	now := time.Now()
	updates := map[string]interface{}{
		"payment_status":    constants.PAYMENT_REFUNDED,
		"payment_intent_id": paymentIntentId,
		"refund_id":         refund.ID,
		"refund_at":         now,
	}
	if err := db.Model(&model.Ticket{}).Where("id = ?", ticket.ID).Updates(updates).Error; err != nil {
		return err
	}
	log.Printf("auto-refunded session %s: %v", ticket.SessionId, cause)
	return cause
}

// CancelExpiredSession voids a checkout session the buyer abandoned.
// Only pending tickets are touched, so an expiry arriving after the
// completion webhook does nothing.
func CancelExpiredSession(ctx context.Context, db *gorm.DB, holds *TicketHoldStore, sessionId string) error {
	var ticket model.Ticket
	if err := db.Where("session_id = ?", sessionId).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := db.Model(&model.Ticket{}).
		Where("session_id = ? AND payment_status = ?", sessionId, constants.PAYMENT_PENDING).
		Update("payment_status", constants.PAYMENT_CANCELLED).Error
	if err != nil {
		return err
	}

	if releaseErr := holds.Release(ctx, ticket.EventId, sessionId); releaseErr != nil {
		log.Printf("failed to release hold for session %s: %v", sessionId, releaseErr)
	}
	return nil
}

// RefundTicket refunds a buyer's paid ticket within the refund window
// and returns its quantity to inventory.
func RefundTicket(ctx context.Context, db *gorm.DB, gateway PaymentGateway, ticketId, userId uint) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := db.Where("id = ? AND user_id = ?", ticketId, userId).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ticket.PaymentStatus != constants.PAYMENT_PAID || ticket.RefundAt != nil || ticket.PaymentIntentId == nil {
		return nil, ErrNotRefundable
	}
	if time.Since(ticket.PurchasesAt) > RefundWindow {
		return nil, ErrRefundWindowExpired
	}

	refund, err := gateway.CreateRefund(ctx, *ticket.PaymentIntentId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Ticket{}).
			Where("id = ? AND payment_status = ? AND refund_at IS NULL", ticket.ID, constants.PAYMENT_PAID).
			Updates(map[string]interface{}{
				"payment_status": constants.PAYMENT_REFUNDED,
				"refund_id":      refund.ID,
				"refund_at":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotRefundable
		}
		return ReleaseSale(tx, ticket.EventId, ticket.Quantity)
	})
	if err != nil {
		return nil, err
	}

	ticket.PaymentStatus = constants.PAYMENT_REFUNDED
	ticket.RefundId = &refund.ID
	ticket.RefundAt = &now
	return &ticket, nil
}

func isDuplicateActiveTicket(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "uq_active_ticket") ||
		(errors.Is(err, gorm.ErrDuplicatedKey) && strings.Contains(msg, "ticket"))
}
