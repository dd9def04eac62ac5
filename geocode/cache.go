package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/motog-app/motog-app-be/models"
)

// Cache TTLs. Forward geocodes are near-immutable city lookups; reverse
// geocodes are per-point and cheaper to refresh.
const (
	geocodeCacheTTL = 7 * 24 * time.Hour
	reverseCacheTTL = 24 * time.Hour
)

type cachedGeocoder struct {
	inner Geocoder
	rdb   *redis.Client
}

// NewCached wraps a Geocoder with a redis read-through cache. Autocomplete
// is never cached; its results are session-biased.
func NewCached(inner Geocoder, rdb *redis.Client) Geocoder {
	return &cachedGeocoder{inner: inner, rdb: rdb}
}

func (c *cachedGeocoder) Geocode(ctx context.Context, address string) (*models.Location, error) {
	key := "geocode:" + strings.ToLower(strings.TrimSpace(address))
	if loc := c.get(ctx, key); loc != nil {
		return loc, nil
	}
	loc, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, loc, geocodeCacheTTL)
	return loc, nil
}

func (c *cachedGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Location, error) {
	key := fmt.Sprintf("reverse_geocode:%v,%v", lat, lng)
	if loc := c.get(ctx, key); loc != nil {
		return loc, nil
	}
	loc, err := c.inner.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, loc, reverseCacheTTL)
	return loc, nil
}

func (c *cachedGeocoder) Autocomplete(ctx context.Context, input string, lat, lng *float64) ([]models.LocationSuggestion, error) {
	return c.inner.Autocomplete(ctx, input, lat, lng)
}

func (c *cachedGeocoder) get(ctx context.Context, key string) *models.Location {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			zap.S().Warnw("geocode cache read failed", "key", key, "error", err)
		}
		return nil
	}
	var loc models.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil
	}
	return &loc
}

func (c *cachedGeocoder) set(ctx context.Context, key string, loc *models.Location, ttl time.Duration) {
	b, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		zap.S().Warnw("geocode cache write failed", "key", key, "error", err)
	}
}
