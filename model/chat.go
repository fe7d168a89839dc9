package model

import "time"

// Chatroom links one buyer with the manager of one event. The composite
// unique index makes lazy creation race-safe: a losing writer re-fetches.
type Chatroom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventId   uint      `gorm:"not null;index;uniqueIndex:uq_room_triple" json:"event_id"`
	ManagerId uint      `gorm:"not null;index;uniqueIndex:uq_room_triple" json:"manager_id"`
	UserId    uint      `gorm:"not null;index;uniqueIndex:uq_room_triple" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Event Event `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE" json:"-"`
}

// ChatMessage is immutable once created. IDs are monotonic and double as
// the pagination cursor for message history.
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoomId      uint      `gorm:"not null;index" json:"room_id"`
	SenderId    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientId uint      `gorm:"not null;index" json:"recipient_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`

	Room Chatroom `gorm:"foreignKey:RoomId;constraint:OnDelete:CASCADE" json:"-"`
}

type ChatRoomOut struct {
	RoomId          uint       `json:"room_id"`
	EventId         uint       `json:"event_id"`
	EventTitle      string     `json:"event_title"`
	OtherUserId     uint       `json:"other_user_id"`
	OtherUsername   string     `json:"other_username"`
	LastMessage     *string    `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time"`
}

type MessageOut struct {
	ID          uint      `json:"id"`
	RoomId      uint      `json:"room_id"`
	SenderId    uint      `json:"sender_id"`
	RecipientId uint      `json:"recipient_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessagePage struct {
	Items        []MessageOut `json:"items"`
	HasMore      bool         `json:"has_more"`
	NextBeforeId *uint        `json:"next_before_id"`
}

// WsInbound is the envelope clients send over the chat socket.
type WsInbound struct {
	Content string `json:"content"`
}
