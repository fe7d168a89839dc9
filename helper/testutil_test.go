package helper

import (
	"context"
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

var userSeq atomic.Int64

func createUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()

	n := userSeq.Add(1)
	user := model.User{
		Username:       fmt.Sprintf("user%d", n),
		Email:          fmt.Sprintf("user%d@example.com", n),
		HashedPassword: "x",
		Role:           role,
		IsVerified:     true,
		IsApproved:     role == constants.ROLE_MANAGER,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createEvent(t *testing.T, db *gorm.DB, managerId uint, limit int64) *model.Event {
	t.Helper()

	n := userSeq.Add(1)
	event := model.Event{
		ManagerId:   &managerId,
		Title:       fmt.Sprintf("Event %d", n),
		Slug:        fmt.Sprintf("event-%d", n),
		Location:    "Main Hall",
		TicketPrice: decimal.NewFromInt(20),
		TicketLimit: limit,
		EventDate:   time.Now().Add(72 * time.Hour),
		IsActive:    true,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

// fakeGateway records calls instead of reaching a provider.
type fakeGateway struct {
	sessionSeq int
	refundSeq  int
	refunded   []string
	refundErr  error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, params model.CheckoutParams) (*model.CheckoutSession, error) {
	g.sessionSeq++
	id := fmt.Sprintf("cs_test_%d", g.sessionSeq)
	return &model.CheckoutSession{ID: id, URL: "https://pay.example.com/" + id}, nil
}

func (g *fakeGateway) CreateRefund(_ context.Context, paymentIntentId string) (*model.Refund, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refundSeq++
	g.refunded = append(g.refunded, paymentIntentId)
	return &model.Refund{ID: fmt.Sprintf("re_test_%d", g.refundSeq)}, nil
}
