package helper

import (
	"errors"

	"event_hub/model"

	"gorm.io/gorm"
)

// EnsureRoom returns the chatroom for the (event, manager, user) triple,
// creating it when missing. A concurrent create losing the race on the
// unique index is recovered by re-fetching the winner's row.
func EnsureRoom(tx *gorm.DB, eventId, managerId, userId uint) (*model.Chatroom, error) {
	var room model.Chatroom
	err := tx.Where("event_id = ? AND manager_id = ? AND user_id = ?", eventId, managerId, userId).
		First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room = model.Chatroom{EventId: eventId, ManagerId: managerId, UserId: userId}
	if createErr := tx.Create(&room).Error; createErr != nil {
		err = tx.Where("event_id = ? AND manager_id = ? AND user_id = ?", eventId, managerId, userId).
			First(&room).Error
		if err != nil {
			return nil, createErr
		}
	}
	return &room, nil
}
