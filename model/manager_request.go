package model

import "time"

// EventManagerRequest holds one outstanding (or most recent) promotion
// request per user. A rejected request is resubmitted in place.
type EventManagerRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserId      uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Status      string     `gorm:"not null;default:'pending'" json:"status"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewedBy  *uint      `json:"reviewed_by"`
	CreatedAt   time.Time  `json:"created_at"`

	User User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE" json:"-"`
}

type ManagerReviewInput struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type ManagerRequestOut struct {
	ID          uint       `json:"id"`
	UserId      uint       `json:"user_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role,omitempty"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}
