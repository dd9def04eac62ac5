package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotaCounter rations paid vehicle-registry lookups per user.
type QuotaCounter interface {
	// Consume spends one lookup and reports whether the caller is still
	// within quota. The spend happens either way, so a denied caller cannot
	// probe for free.
	Consume(ctx context.Context, userID primitive.ObjectID) (bool, error)
}

// counterStore is the slice of redis the monthly quota needs.
type counterStore interface {
	IncrWithTTL(ctx context.Context, key string) (count int64, ttl time.Duration, err error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type monthlyQuota struct {
	store counterStore
	limit int64
}

// NewMonthlyQuota returns a QuotaCounter allowing limit lookups per user per
// calendar month, backed by redis counters that expire at month end.
func NewMonthlyQuota(rdb *redis.Client, limit int64) QuotaCounter {
	return &monthlyQuota{store: redisCounter{rdb: rdb}, limit: limit}
}

func (q *monthlyQuota) Consume(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	key := fmt.Sprintf("rate_limit:vehicle_verify:%s", userID.Hex())

	count, ttl, err := q.store.IncrWithTTL(ctx, key)
	if err != nil {
		return false, err
	}
	// a fresh counter has no expiry yet; pin it to the end of the month so
	// the quota resets itself
	if ttl < 0 {
		if err := q.store.Expire(ctx, key, untilMonthEnd(time.Now().UTC())); err != nil {
			return false, err
		}
	}
	return count <= q.limit, nil
}

func untilMonthEnd(now time.Time) time.Duration {
	var next time.Time
	if now.Month() == time.December {
		next = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		next = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
	return next.Sub(now)
}

type redisCounter struct {
	rdb *redis.Client
}

func (c redisCounter) IncrWithTTL(ctx context.Context, key string) (int64, time.Duration, error) {
	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}

func (c redisCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}
