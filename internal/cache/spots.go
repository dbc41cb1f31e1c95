// Package cache keeps short-lived copies of lot spot listings in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/metrics"
	"parking_recommender/internal/recommend"
)

const keyPrefix = "spots:"

// SpotCache is safe to use with a nil client; every call is then a miss or
// a no-op.
type SpotCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewSpotCache(rc *redis.Client, ttl time.Duration) *SpotCache {
	return &SpotCache{rc: rc, ttl: ttl}
}

func key(lotID string) string { return keyPrefix + lotID }

// Get returns the cached listing. Redis failures are logged and treated as
// misses so the caller falls back to the database.
func (c *SpotCache) Get(ctx context.Context, lotID string) ([]recommend.Spot, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	s, err := c.rc.Get(ctx, key(lotID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).WithField("lot_id", lotID).Warn("spot cache read failed")
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}
	var spots []recommend.Spot
	if err := json.Unmarshal([]byte(s), &spots); err != nil {
		logrus.WithError(err).WithField("lot_id", lotID).Warn("spot cache entry unreadable")
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return spots, true
}

func (c *SpotCache) Set(ctx context.Context, lotID string, spots []recommend.Spot) {
	if c == nil || c.rc == nil {
		return
	}
	b, err := json.Marshal(spots)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, key(lotID), string(b), c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("lot_id", lotID).Warn("spot cache write failed")
	}
}

// InvalidateLot drops the cached listing. It satisfies loader.Invalidator.
func (c *SpotCache) InvalidateLot(ctx context.Context, lotID string) error {
	if c == nil || c.rc == nil {
		return nil
	}
	return c.rc.Del(ctx, key(lotID)).Err()
}
