package helper

import (
	"context"
	"testing"

	"event_hub/constants"
	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitSaleRespectsLimit(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	event := createEvent(t, db, manager.ID, 10)

	require.NoError(t, CommitSale(db, event.ID, 7))
	require.NoError(t, CommitSale(db, event.ID, 3))

	err := CommitSale(db, event.ID, 1)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	var fresh model.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, int64(10), fresh.TicketsSold)
}

func TestCommitSaleUnknownEvent(t *testing.T) {
	db := newTestDB(t)

	err := CommitSale(db, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReleaseSaleFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	event := createEvent(t, db, manager.ID, 10)

	require.NoError(t, CommitSale(db, event.ID, 2))
	require.NoError(t, ReleaseSale(db, event.ID, 5))

	var fresh model.Event
	require.NoError(t, db.First(&fresh, event.ID).Error)
	assert.Equal(t, int64(0), fresh.TicketsSold)
}

func TestTicketsSoldCheckConstraint(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	event := createEvent(t, db, manager.ID, 10)

	err := db.Model(&model.Event{}).Where("id = ?", event.ID).
		Update("tickets_sold", -1).Error
	assert.Error(t, err)

	err = db.Model(&model.Event{}).Where("id = ?", event.ID).
		Update("tickets_sold", event.TicketLimit+1).Error
	assert.Error(t, err)
}

func TestReserveCheckCountsSoldTickets(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)
	event := createEvent(t, db, manager.ID, 10)
	require.NoError(t, CommitSale(db, event.ID, 8))

	ctx := context.Background()

	available, err := ReserveCheck(ctx, db, nil, event.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)

	available, err = ReserveCheck(ctx, db, nil, event.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Equal(t, int64(2), available)

	_, err = ReserveCheck(ctx, db, nil, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
