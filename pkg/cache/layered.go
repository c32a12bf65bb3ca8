package cache

import (
	"context"
	"time"
)

// LayeredCache implements two-level cache (L1: Memory, L2: Redis).
// The Redis layer is optional; without it the cache degrades to memory-only,
// which is enough for the single-process snapshot fallback.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
}

// NewLayeredCache creates a layered cache with memory and an optional Redis layer.
func NewLayeredCache(redisCache *RedisCache, opts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		memCache:   NewMemoryCache(opts...),
		redisCache: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.memCache.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	if lc.redisCache != nil {
		return lc.redisCache.Set(ctx, key, value, expiration)
	}
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	// L1: Try memory first
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	if lc.redisCache == nil {
		return ErrCacheMiss
	}

	// L2: Try Redis
	if err := lc.redisCache.Get(ctx, key, dest); err != nil {
		return err
	}

	// Store in memory for next time
	_ = lc.memCache.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	if err := lc.memCache.Delete(ctx, keys...); err != nil {
		return err
	}
	if lc.redisCache != nil {
		return lc.redisCache.Delete(ctx, keys...)
	}
	return nil
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, err := lc.memCache.Exists(ctx, keys...); err == nil && ok {
		return true, nil
	}
	if lc.redisCache != nil {
		return lc.redisCache.Exists(ctx, keys...)
	}
	return false, nil
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	if lc.redisCache != nil {
		return lc.redisCache.Close()
	}
	return nil
}
