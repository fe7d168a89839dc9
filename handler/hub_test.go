package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	written [][]byte
	dead    bool
	closed  bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.dead {
		return errors.New("connection reset")
	}
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestChatHubBroadcast(t *testing.T) {
	hub := NewChatHub()
	a := &fakeConn{}
	b := &fakeConn{}
	other := &fakeConn{}

	hub.Join(1, a)
	hub.Join(1, b)
	hub.Join(2, other)

	hub.Broadcast(1, []byte("hello"))

	assert.Len(t, a.written, 1)
	assert.Len(t, b.written, 1)
	assert.Empty(t, other.written)
}

func TestChatHubPrunesDeadConnections(t *testing.T) {
	hub := NewChatHub()
	alive := &fakeConn{}
	dead := &fakeConn{dead: true}

	hub.Join(1, alive)
	hub.Join(1, dead)

	hub.Broadcast(1, []byte("first"))
	assert.True(t, dead.closed)
	assert.Equal(t, 1, hub.RoomSize(1))

	hub.Broadcast(1, []byte("second"))
	assert.Len(t, alive.written, 2)
}

func TestChatHubLeave(t *testing.T) {
	hub := NewChatHub()
	conn := &fakeConn{}

	hub.Join(3, conn)
	assert.Equal(t, 1, hub.RoomSize(3))

	hub.Leave(3, conn)
	assert.Equal(t, 0, hub.RoomSize(3))

	// Leaving twice is harmless.
	hub.Leave(3, conn)
	hub.Broadcast(3, []byte("nobody home"))
	assert.Empty(t, conn.written)
}
