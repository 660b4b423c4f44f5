package delays

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const recordSetCacheKey = "trainboard/delay_records"

// Cache is the time-boxed layer above the stateless scrape cycle. A cache miss
// runs a fresh cycle; within the TTL every caller gets the same snapshot. The
// cycle itself stays idempotent, so concurrent misses are safe - at worst two
// requests scrape in parallel and the later write wins.
type Cache struct {
	scraper *Scraper
	cache   *cache.Cache[string]
}

func NewCache(scraper *Scraper, redisClient *redis.Client, ttl time.Duration) *Cache {
	redisStore := redisstore.NewRedis(redisClient, store.WithExpiration(ttl))

	return &Cache{
		scraper: scraper,
		cache:   cache.New[string](redisStore),
	}
}

// Get returns the current record set, scraping only when the cached snapshot
// has expired.
func (c *Cache) Get(ctx context.Context) RecordSet {
	cacheValue, err := c.cache.Get(ctx, recordSetCacheKey)
	if err == nil {
		var records RecordSet

		decodeErr := json.Unmarshal([]byte(cacheValue), &records)
		if decodeErr == nil {
			return records
		}

		log.Error().Err(decodeErr).Msg("Failed to decode cached delay records")
	}

	records := c.scraper.Fetch(ctx)

	recordsJSON, err := json.Marshal(records)
	if err == nil {
		if err := c.cache.Set(ctx, recordSetCacheKey, string(recordsJSON)); err != nil {
			log.Error().Err(err).Msg("Failed to cache delay records")
		}
	}

	return records
}
