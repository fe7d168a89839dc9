package handler

import (
	"encoding/json"
	"testing"

	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverInboundDropsBlankContent(t *testing.T) {
	db := useTestDB(t)
	hub := NewChatHub()
	conn := &fakeConn{}
	hub.Join(1, conn)

	for _, raw := range []string{
		`{"content":""}`,
		`{"content":"   "}`,
		`{"content":"\t\n "}`,
		`not json`,
	} {
		assert.False(t, deliverInbound(hub, 1, 2, 3, []byte(raw)), raw)
	}

	var count int64
	require.NoError(t, db.Model(&model.ChatMessage{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, conn.written)
}

func TestDeliverInboundTrimsAndBroadcastsEnvelope(t *testing.T) {
	db := useTestDB(t)
	hub := NewChatHub()
	conn := &fakeConn{}
	hub.Join(7, conn)

	ok := deliverInbound(hub, 7, 2, 3, []byte(`{"content":"  see you there  "}`))
	require.True(t, ok)

	var message model.ChatMessage
	require.NoError(t, db.First(&message).Error)
	assert.Equal(t, "see you there", message.Content)
	assert.Equal(t, uint(2), message.SenderId)
	assert.Equal(t, uint(3), message.RecipientId)

	require.Len(t, conn.written, 1)
	var frame struct {
		Success    bool             `json:"success"`
		StatusCode int              `json:"statusCode"`
		Message    string           `json:"message"`
		Data       model.MessageOut `json:"data"`
	}
	require.NoError(t, json.Unmarshal(conn.written[0], &frame))
	assert.True(t, frame.Success)
	assert.Equal(t, 200, frame.StatusCode)
	assert.Equal(t, "New message", frame.Message)
	assert.Equal(t, uint(7), frame.Data.RoomId)
	assert.Equal(t, "see you there", frame.Data.Content)
}

func TestWsEnvelopeFailureShape(t *testing.T) {
	raw := wsEnvelope(false, 403, "not a participant of this room", nil)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, false, frame["success"])
	assert.Equal(t, float64(403), frame["statusCode"])
	assert.Equal(t, "not a participant of this room", frame["message"])
	assert.Nil(t, frame["data"])
}
