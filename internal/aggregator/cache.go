package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushire/backend/pkg/logger"
)

const cacheTTL = 5 * time.Minute

// listingCache is a best-effort Redis cache for fetched listings. A nil
// client or any Redis error turns every operation into a no-op miss.
type listingCache struct {
	rdb *redis.Client
}

func newListingCache(rdb *redis.Client) *listingCache {
	return &listingCache{rdb: rdb}
}

func cacheKey(source, query, location string, limit int) string {
	return fmt.Sprintf("extjobs:%s:%s:%s:%d", source, query, location, limit)
}

func (c *listingCache) get(ctx context.Context, key string) ([]Listing, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.L().Debug("listing cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var out []Listing
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *listingCache) set(ctx context.Context, key string, listings []Listing) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(listings)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		logger.L().Debug("listing cache write failed", zap.String("key", key), zap.Error(err))
	}
}
