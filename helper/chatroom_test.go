package helper

import (
	"testing"

	"event_hub/constants"
	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureRoomCreatesOnce(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	buyer := createUser(t, db, constants.ROLE_USER)
	event := createEvent(t, db, manager.ID, 10)

	room, err := EnsureRoom(db, event.ID, manager.ID, buyer.ID)
	require.NoError(t, err)
	require.NotZero(t, room.ID)

	again, err := EnsureRoom(db, event.ID, manager.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.Chatroom{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureRoomRecoversLostCreateRace(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	buyer := createUser(t, db, constants.ROLE_USER)
	event := createEvent(t, db, manager.ID, 10)

	// Sneak the winning row in between the existence check and the
	// insert, so the insert hits uq_room_triple and the winner must be
	// re-fetched.
	var winner model.Chatroom
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("room_race", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.Chatroom); !ok {
			return
		}
		raced = true
		winner = model.Chatroom{EventId: event.ID, ManagerId: manager.ID, UserId: buyer.ID}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&winner).Error)
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Callback().Create().Remove("room_race") })

	room, err := EnsureRoom(db, event.ID, manager.ID, buyer.ID)
	require.NoError(t, err)
	require.True(t, raced)
	assert.Equal(t, winner.ID, room.ID)

	var count int64
	require.NoError(t, db.Model(&model.Chatroom{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureRoomDistinctTriples(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	buyerA := createUser(t, db, constants.ROLE_USER)
	buyerB := createUser(t, db, constants.ROLE_USER)
	event := createEvent(t, db, manager.ID, 10)
	other := createEvent(t, db, manager.ID, 10)

	roomA, err := EnsureRoom(db, event.ID, manager.ID, buyerA.ID)
	require.NoError(t, err)
	roomB, err := EnsureRoom(db, event.ID, manager.ID, buyerB.ID)
	require.NoError(t, err)
	roomC, err := EnsureRoom(db, other.ID, manager.ID, buyerA.ID)
	require.NoError(t, err)

	assert.NotEqual(t, roomA.ID, roomB.ID)
	assert.NotEqual(t, roomA.ID, roomC.ID)
}
