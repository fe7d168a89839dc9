package helper

import (
	"testing"

	"event_hub/constants"
	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueEventSlug(t *testing.T) {
	db := newTestDB(t)
	manager := createUser(t, db, constants.ROLE_MANAGER)

	slug, err := GenerateUniqueEventSlug(db, "Summer Jazz Night!")
	require.NoError(t, err)
	assert.Equal(t, "summer-jazz-night", slug)

	event := createEvent(t, db, manager.ID, 10)
	require.NoError(t, db.Model(&model.Event{}).Where("id = ?", event.ID).
		Update("slug", "summer-jazz-night").Error)

	slug, err = GenerateUniqueEventSlug(db, "Summer Jazz Night!")
	require.NoError(t, err)
	assert.Equal(t, "summer-jazz-night-2", slug)
}

func TestGenerateUniqueEventSlugEmptyTitle(t *testing.T) {
	db := newTestDB(t)

	slug, err := GenerateUniqueEventSlug(db, "!!!")
	require.NoError(t, err)
	assert.Equal(t, "event", slug)
}
