package service

import (
	"context"

	"jotbot/internal/cache"

	"golang.org/x/sync/singleflight"
)

// withCache returns the view under key, through the cache when one is
// configured. Misses go through singleflight so concurrent readers of the
// same key share a single load.
func withCache[T any](ctx context.Context, c *cache.ViewCache, sf *singleflight.Group, key string, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}
	v, err, _ := sf.Do(key, func() (interface{}, error) {
		var cached T
		if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
		fresh, err := load()
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, fresh)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// clampLimit forces limit into [1, max].
func clampLimit(limit, max int) int {
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
