package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is one purchase attempt. Rows are never deleted; refunds and
// cancellations keep the row as an audit trail. The partial unique index
// allows at most one active (paid, not refunded) ticket per event/buyer.
type Ticket struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	EventId         uint            `gorm:"not null;index;uniqueIndex:uq_active_ticket,where:refund_at IS NULL AND payment_status = 'paid'" json:"event_id"`
	UserId          *uint           `gorm:"index;uniqueIndex:uq_active_ticket,where:refund_at IS NULL AND payment_status = 'paid'" json:"user_id"`
	Quantity        int64           `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	PaymentStatus   string          `gorm:"not null;default:'pending';index" json:"payment_status"`
	SessionId       string          `gorm:"uniqueIndex;size:255" json:"-"`
	PaymentIntentId *string         `json:"-"`
	RefundId        *string         `gorm:"uniqueIndex" json:"-"`
	PurchasesAt     time.Time       `gorm:"not null" json:"purchases_at"`
	RefundAt        *time.Time      `json:"refund_at"`
	CreatedAt       time.Time       `json:"created_at"`

	Event Event `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE" json:"-"`
	User  *User `gorm:"foreignKey:UserId;constraint:OnDelete:SET NULL" json:"-"`
}

type TicketPurchaseInput struct {
	EventId  uint  `json:"event_id" validate:"required,gt=0"`
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

type TicketOut struct {
	ID            uint            `json:"id"`
	EventId       uint            `json:"event_id"`
	EventTitle    string          `json:"event_title"`
	UserId        *uint           `json:"user_id"`
	Quantity      int64           `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentStatus string          `json:"payment_status"`
	PurchasesAt   time.Time       `json:"purchases_at"`
	RefundAt      *time.Time      `json:"refund_at"`
	QrCode        string          `json:"qr_code,omitempty"`
}

type CheckoutSessionOut struct {
	SessionId   string `json:"session_id"`
	CheckoutUrl string `json:"checkout_url"`
}
