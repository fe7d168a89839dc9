package helper

import (
	"context"
	"errors"

	"event_hub/model"

	"gorm.io/gorm"
)

// ReserveCheck reports how many tickets are still sellable for an event,
// counting both committed sales and live checkout holds. It does not
// reserve anything itself; reservation happens via the hold store when a
// pending ticket is created.
func ReserveCheck(ctx context.Context, db *gorm.DB, holds *TicketHoldStore, eventId uint, quantity int64) (int64, error) {
	var event model.Event
	if err := db.First(&event, eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	held, err := holds.Held(ctx, eventId)
	if err != nil {
		return 0, err
	}

	available := event.TicketLimit - event.TicketsSold - held
	if available < 0 {
		available = 0
	}
	if quantity > available {
		return available, ErrInsufficientInventory
	}
	return available, nil
}

// CommitSale increments tickets_sold inside the caller's transaction.
// The conditional UPDATE is the compare-and-set that keeps concurrent
// confirmations from overcommitting: zero rows affected with an existing
// event means the increment would exceed ticket_limit.
func CommitSale(tx *gorm.DB, eventId uint, quantity int64) error {
	res := tx.Model(&model.Event{}).
		Where("id = ? AND tickets_sold + ? <= ticket_limit", eventId, quantity).
		UpdateColumn("tickets_sold", gorm.Expr("tickets_sold + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&model.Event{}).Where("id = ?", eventId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrInvariantViolation
	}
	return nil
}

// ReleaseSale decrements tickets_sold, floored at zero.
func ReleaseSale(tx *gorm.DB, eventId uint, quantity int64) error {
	return tx.Model(&model.Event{}).
		Where("id = ?", eventId).
		UpdateColumn("tickets_sold", gorm.Expr(
			"CASE WHEN tickets_sold > ? THEN tickets_sold - ? ELSE 0 END", quantity, quantity,
		)).Error
}
