package helper

import (
	"event_hub/model"

	"gorm.io/gorm"
)

// ListRoomMessages pages a room's history backwards with a keyset cursor.
// Messages are fetched newest-first from before the cursor, then reversed
// so the page reads oldest-first. NextBeforeId is the smallest id on the
// page, set only when older messages remain.
func ListRoomMessages(db *gorm.DB, roomId uint, beforeId *uint, limit int) (*model.MessagePage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := db.Where("room_id = ?", roomId)
	if beforeId != nil {
		query = query.Where("id < ?", *beforeId)
	}

	var messages []model.ChatMessage
	if err := query.Order("id DESC").Limit(limit + 1).Find(&messages).Error; err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	page := &model.MessagePage{
		Items:   make([]model.MessageOut, 0, len(messages)),
		HasMore: hasMore,
	}
	for _, m := range messages {
		page.Items = append(page.Items, model.MessageOut{
			ID:          m.ID,
			RoomId:      m.RoomId,
			SenderId:    m.SenderId,
			RecipientId: m.RecipientId,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
		})
	}
	if hasMore && len(messages) > 0 {
		smallest := messages[0].ID
		page.NextBeforeId = &smallest
	}
	return page, nil
}
