package helper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TicketHoldStore tracks in-flight checkout reservations in redis. Each
// pending checkout session gets one key that expires with the session,
// so abandoned checkouts release their quantity without any cleanup job.
type TicketHoldStore struct {
	rdb *redis.Client
}

func NewTicketHoldStore(rdb *redis.Client) *TicketHoldStore {
	return &TicketHoldStore{rdb: rdb}
}

func holdKey(eventId uint, sessionId string) string {
	return fmt.Sprintf("hold:%d:%s", eventId, sessionId)
}

// Hold records a reservation for the lifetime of the checkout session.
func (s *TicketHoldStore) Hold(ctx context.Context, eventId uint, sessionId string, quantity int64, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Set(ctx, holdKey(eventId, sessionId), quantity, ttl).Err()
}

// Release drops a reservation once its session completes or expires.
func (s *TicketHoldStore) Release(ctx context.Context, eventId uint, sessionId string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, holdKey(eventId, sessionId)).Err()
}

// Held sums the quantities of all live reservations for an event.
func (s *TicketHoldStore) Held(ctx context.Context, eventId uint) (int64, error) {
	if s == nil || s.rdb == nil {
		return 0, nil
	}

	keys, err := s.rdb.Keys(ctx, fmt.Sprintf("hold:%d:*", eventId)).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, v := range values {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			if n, err := strconv.ParseInt(str, 10, 64); err == nil {
				total += n
			}
		}
	}
	return total, nil
}
