package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ManagerId   *uint           `gorm:"index" json:"manager_id"`
	Title       string          `gorm:"not null" json:"title"`
	Slug        string          `gorm:"uniqueIndex;size:120" json:"slug"`
	Description string          `json:"description"`
	Location    string          `gorm:"not null;index" json:"location"`
	Latitude    *float64        `json:"latitude"`
	Longitude   *float64        `json:"longitude"`
	TicketPrice decimal.Decimal `gorm:"type:numeric(10,2);not null;check:ticket_price > 0" json:"ticket_price"`
	TicketLimit int64           `gorm:"not null;check:ticket_limit > 0" json:"ticket_limit"`
	TicketsSold int64           `gorm:"not null;default:0;check:tickets_sold >= 0 AND tickets_sold <= ticket_limit" json:"tickets_sold"`
	EventDate   time.Time       `gorm:"not null" json:"event_date"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Manager *User        `gorm:"foreignKey:ManagerId;constraint:OnDelete:SET NULL" json:"-"`
	Images  []EventImage `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE" json:"-"`
}

// TicketsAvailable is limit minus sold, never negative.
func (e *Event) TicketsAvailable() int64 {
	if avail := e.TicketLimit - e.TicketsSold; avail > 0 {
		return avail
	}
	return 0
}

type EventImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventId      uint      `gorm:"not null;index" json:"event_id"`
	ImageUrl     string    `gorm:"not null" json:"image_url"`
	PublicId     string    `gorm:"not null" json:"public_id"`
	DisplayOrder int64     `gorm:"not null;default:0" json:"display_order"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type EventCreateInput struct {
	Title       string          `json:"title" validate:"required,min=1,max=100"`
	Description string          `json:"description"`
	Location    string          `json:"location" validate:"required,min=1"`
	Latitude    *float64        `json:"latitude"`
	Longitude   *float64        `json:"longitude"`
	TicketPrice decimal.Decimal `json:"ticket_price" validate:"required"`
	TicketLimit int64           `json:"ticket_limit" validate:"required,gt=0"`
	EventDate   time.Time       `json:"event_date" validate:"required"`
}

type EventUpdateInput struct {
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	Location    *string    `json:"location" validate:"omitempty,min=1"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	TicketLimit *int64     `json:"ticket_limit" validate:"omitempty,gt=0"`
	EventDate   *time.Time `json:"event_date"`
}

type EventImageOut struct {
	ImageUrl string `json:"image_url"`
	PublicId string `json:"public_id"`
}

type EventOut struct {
	ID               uint            `json:"id"`
	ManagerId        *uint           `json:"manager_id"`
	ManagerUsername  string          `json:"manager_username"`
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	Description      string          `json:"description"`
	Location         string          `json:"location"`
	Latitude         *float64        `json:"latitude"`
	Longitude        *float64        `json:"longitude"`
	TicketPrice      decimal.Decimal `json:"ticket_price"`
	TicketLimit      int64           `json:"ticket_limit"`
	TicketsSold      int64           `json:"tickets_sold"`
	TicketsAvailable int64           `json:"tickets_available"`
	EventDate        time.Time       `json:"event_date"`
	Images           []EventImageOut `json:"images"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
