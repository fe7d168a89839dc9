package handler

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"event_hub/constants"
	"event_hub/database"
	"event_hub/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// useTestDB swaps the package-global connection for an in-memory one
// for the duration of the test.
func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()

	n := seq.Add(1)
	user := model.User{
		Username:       fmt.Sprintf("huser%d", n),
		Email:          fmt.Sprintf("huser%d@example.com", n),
		HashedPassword: "x",
		Role:           role,
		IsVerified:     true,
		IsApproved:     role == constants.ROLE_MANAGER,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedEvent(t *testing.T, db *gorm.DB, managerId uint, limit int64) *model.Event {
	t.Helper()

	n := seq.Add(1)
	event := model.Event{
		ManagerId:   &managerId,
		Title:       fmt.Sprintf("Handler Event %d", n),
		Slug:        fmt.Sprintf("handler-event-%d", n),
		Location:    "Arena",
		TicketPrice: decimal.NewFromInt(15),
		TicketLimit: limit,
		EventDate:   time.Now().Add(48 * time.Hour),
		IsActive:    true,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func seedPendingTicket(t *testing.T, db *gorm.DB, event *model.Event, userId uint, qty int64, sessionId string) *model.Ticket {
	t.Helper()

	ticket := model.Ticket{
		EventId:       event.ID,
		UserId:        &userId,
		Quantity:      qty,
		TotalPrice:    event.TicketPrice.Mul(decimal.NewFromInt(qty)),
		PaymentStatus: constants.PAYMENT_PENDING,
		SessionId:     sessionId,
	}
	require.NoError(t, db.Create(&ticket).Error)
	return &ticket
}
