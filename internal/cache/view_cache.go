package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "views:"

// ViewCache caches per-user read views (top tasks, agenda, list pages,
// search results) in Redis as JSON. Any write for a user invalidates all
// of that user's keys, so entries never leak across users or stay stale
// past the next mutation.
type ViewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewViewCache returns a new ViewCache.
func NewViewCache(rdb *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{rdb: rdb, ttl: ttl}
}

// Key builds a cache key under the user's namespace.
func Key(userID int64, parts ...string) string {
	return keyPrefix + strconv.FormatInt(userID, 10) + ":" + strings.Join(parts, ":")
}

// Get loads the view under key into dest. Returns false on miss.
func (c *ViewCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the view under key with the cache TTL.
func (c *ViewCache) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// InvalidateUser removes every cached view belonging to the user.
func (c *ViewCache) InvalidateUser(ctx context.Context, userID int64) error {
	pattern := keyPrefix + strconv.FormatInt(userID, 10) + ":*"
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
