package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubCounterStore struct {
	count   int64
	ttl     time.Duration
	expired map[string]time.Duration
}

func (s *stubCounterStore) IncrWithTTL(_ context.Context, _ string) (int64, time.Duration, error) {
	s.count++
	return s.count, s.ttl, nil
}

func (s *stubCounterStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	if s.expired == nil {
		s.expired = map[string]time.Duration{}
	}
	s.expired[key] = ttl
	return nil
}

func TestMonthlyQuotaDeniesSixthLookup(t *testing.T) {
	store := &stubCounterStore{ttl: time.Hour}
	q := &monthlyQuota{store: store, limit: 5}
	userID := primitive.NewObjectID()

	for i := 0; i < 5; i++ {
		allowed, err := q.Consume(context.Background(), userID)
		assert.NoError(t, err)
		assert.True(t, allowed, "lookup %d should be within quota", i+1)
	}

	allowed, err := q.Consume(context.Background(), userID)
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestMonthlyQuotaPinsFreshCounterToMonthEnd(t *testing.T) {
	// redis reports a negative TTL for a key with no expiry
	store := &stubCounterStore{ttl: -time.Second}
	q := &monthlyQuota{store: store, limit: 5}
	userID := primitive.NewObjectID()

	allowed, err := q.Consume(context.Background(), userID)
	assert.NoError(t, err)
	assert.True(t, allowed)

	key := "rate_limit:vehicle_verify:" + userID.Hex()
	ttl, ok := store.expired[key]
	assert.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 31*24*time.Hour)
}

func TestUntilMonthEnd(t *testing.T) {
	mid := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC).Sub(mid), untilMonthEnd(mid))

	// December rolls into January of the next year
	dec := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, untilMonthEnd(dec))
}
