package handler

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"

	"event_hub/database"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/monitoring"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// wsConn is the slice of *websocket.Conn the hub needs, so tests can
// drive the hub with fakes.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ChatHub tracks live websocket connections per chatroom. It is
// injected into the websocket handler rather than living as a package
// global, so each server (and each test) owns its registry.
type ChatHub struct {
	mu    sync.Mutex
	rooms map[uint]map[wsConn]bool
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]map[wsConn]bool)}
}

func (h *ChatHub) Join(roomId uint, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomId] == nil {
		h.rooms[roomId] = make(map[wsConn]bool)
	}
	h.rooms[roomId][conn] = true
}

func (h *ChatHub) Leave(roomId uint, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomId] != nil {
		delete(h.rooms[roomId], conn)
		if len(h.rooms[roomId]) == 0 {
			delete(h.rooms, roomId)
		}
	}
}

// Broadcast writes payload to every connection in the room. Dead
// connections are closed and pruned after the pass.
func (h *ChatHub) Broadcast(roomId uint, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []wsConn
	for conn := range h.rooms[roomId] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		conn.Close()
		delete(h.rooms[roomId], conn)
	}
	if len(h.rooms[roomId]) == 0 {
		delete(h.rooms, roomId)
	}
}

// RoomSize reports how many connections a room currently holds.
func (h *ChatHub) RoomSize(roomId uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomId])
}

// wsEnvelope marshals a frame in the same shape the HTTP handlers
// respond with, so clients parse one format everywhere.
func wsEnvelope(success bool, status int, message string, data interface{}) []byte {
	payload, _ := json.Marshal(fiber.Map{
		"success":    success,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
	return payload
}

func wsReject(c *websocket.Conn, status int, message string) {
	c.WriteMessage(websocket.TextMessage, wsEnvelope(false, status, message, nil))
	c.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message))
	c.Close()
}

// deliverInbound parses one client frame, persists the message and
// broadcasts it to the room. Malformed frames and blank or
// whitespace-only content are dropped without a reply. Reports whether
// a message was delivered.
func deliverInbound(hub *ChatHub, roomId, senderId, recipientId uint, raw []byte) bool {
	var inbound model.WsInbound
	if err := json.Unmarshal(raw, &inbound); err != nil {
		return false
	}
	content := strings.TrimSpace(inbound.Content)
	if content == "" {
		return false
	}

	message := model.ChatMessage{
		RoomId:      roomId,
		SenderId:    senderId,
		RecipientId: recipientId,
		Content:     content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		log.Printf("failed to persist chat message in room %d: %v", roomId, err)
		return false
	}

	hub.Broadcast(roomId, wsEnvelope(true, fiber.StatusOK, "New message", model.MessageOut{
		ID:          message.ID,
		RoomId:      message.RoomId,
		SenderId:    message.SenderId,
		RecipientId: message.RecipientId,
		Content:     message.Content,
		CreatedAt:   message.CreatedAt,
	}))
	return true
}

// ChatWebsocket serves one chat connection. Auth rides the ?token=
// query param because browsers cannot set headers on websocket
// upgrades. Managers may always join their rooms; buyers must still
// hold an active ticket for the event.
func ChatWebsocket(hub *ChatHub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		token, err := helper.ParseToken(c.Query("token"))
		if err != nil || !token.Valid {
			wsReject(c, fiber.StatusUnauthorized, "invalid token")
			return
		}
		claim, err := helper.ClaimFromToken(token)
		if err != nil || claim.UserId == 0 {
			wsReject(c, fiber.StatusUnauthorized, "invalid token")
			return
		}

		roomId64, err := strconv.ParseUint(c.Params("roomId"), 10, 64)
		if err != nil {
			wsReject(c, fiber.StatusBadRequest, "invalid room")
			return
		}
		roomId := uint(roomId64)

		var room model.Chatroom
		if err := database.DB.First(&room, roomId).Error; err != nil {
			wsReject(c, fiber.StatusNotFound, "room not found")
			return
		}

		switch claim.UserId {
		case room.ManagerId:
			// Managers always reach their event rooms.
		case room.UserId:
			active, err := helper.HasActiveTicket(database.DB, room.EventId, room.UserId)
			if err != nil || !active {
				wsReject(c, fiber.StatusForbidden, "no active ticket for this event")
				return
			}
		default:
			wsReject(c, fiber.StatusForbidden, "not a participant of this room")
			return
		}

		hub.Join(roomId, c)
		monitoring.ActiveWsConnections.Inc()
		defer func() {
			hub.Leave(roomId, c)
			monitoring.ActiveWsConnections.Dec()
			c.Close()
		}()

		recipientId := room.UserId
		if claim.UserId == room.UserId {
			recipientId = room.ManagerId
		}

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}
			deliverInbound(hub, roomId, claim.UserId, recipientId, raw)
		}
	}
}

// WsUpgradeRequired gates the websocket route: plain HTTP requests get
// a 426 instead of a handler panic.
func WsUpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
