package helper

import (
	"fmt"
	"testing"

	"event_hub/constants"
	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMessages(t *testing.T, db *gorm.DB, roomId, senderId, recipientId uint, n int) []uint {
	t.Helper()

	ids := make([]uint, 0, n)
	for i := 1; i <= n; i++ {
		m := model.ChatMessage{
			RoomId:      roomId,
			SenderId:    senderId,
			RecipientId: recipientId,
			Content:     fmt.Sprintf("message %d", i),
		}
		require.NoError(t, db.Create(&m).Error)
		ids = append(ids, m.ID)
	}
	return ids
}

func TestListRoomMessagesPagesBackwards(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	buyer := createUser(t, db, constants.ROLE_USER)
	event := createEvent(t, db, manager.ID, 10)
	room, err := EnsureRoom(db, event.ID, manager.ID, buyer.ID)
	require.NoError(t, err)

	ids := seedMessages(t, db, room.ID, buyer.ID, manager.ID, 25)

	// Walk the full history page by page.
	var collected []uint
	var cursor *uint
	pages := 0
	for {
		page, err := ListRoomMessages(db, room.ID, cursor, 10)
		require.NoError(t, err)
		pages++

		for _, m := range page.Items {
			collected = append(collected, m.ID)
		}
		if !page.HasMore {
			assert.Nil(t, page.NextBeforeId)
			break
		}
		require.NotNil(t, page.NextBeforeId)
		assert.Equal(t, page.Items[0].ID, *page.NextBeforeId)
		cursor = page.NextBeforeId
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, collected, 25)

	// First page holds the newest 10 in ascending order.
	page, err := ListRoomMessages(db, room.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	assert.Equal(t, ids[15], page.Items[0].ID)
	assert.Equal(t, ids[24], page.Items[9].ID)
	assert.True(t, page.HasMore)
}

func TestListRoomMessagesEmptyRoom(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	buyer := createUser(t, db, constants.ROLE_USER)
	event := createEvent(t, db, manager.ID, 10)
	room, err := EnsureRoom(db, event.ID, manager.ID, buyer.ID)
	require.NoError(t, err)

	page, err := ListRoomMessages(db, room.ID, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextBeforeId)
}
