package cache

import (
	"errors"
	"log/slog"
	"time"

	"talentrank/candidate-ranker/internal/metrics"
	"talentrank/candidate-ranker/internal/repositories"
)

// TieredCache layers the durable Postgres tier over the in-process store.
// Reads prefer the durable tier; writes go through to both so that the
// in-process tier can answer during a durable-tier outage. Durable failures
// never propagate to the request path.
type TieredCache struct {
	durable repositories.CacheRepository
	memory  *MemoryStore
}

func NewTieredCache(durable repositories.CacheRepository, memory *MemoryStore) *TieredCache {
	return &TieredCache{
		durable: durable,
		memory:  memory,
	}
}

// Get returns the cached value for key, consulting the durable tier first and
// falling back to the in-process tier on miss or failure.
func (c *TieredCache) Get(key string) ([]byte, bool) {
	value, err := c.durable.Get(key)
	if err == nil {
		metrics.RecordCacheOperation("durable", "get", "hit")
		return value, true
	}

	if !errors.Is(err, repositories.ErrCacheMiss) {
		slog.Warn("durable cache tier read failed, falling back to memory",
			"key", key,
			"error", err)
		metrics.RecordCacheOperation("durable", "get", "error")
	} else {
		metrics.RecordCacheOperation("durable", "get", "miss")
	}

	if value, ok := c.memory.Get(key); ok {
		metrics.RecordCacheOperation("memory", "get", "hit")
		return value, true
	}

	metrics.RecordCacheOperation("memory", "get", "miss")
	return nil, false
}

// Set writes to the durable tier and then, regardless of that outcome, to the
// in-process tier. The returned error reports a durable-tier failure for the
// caller to log; the write as a whole has still succeeded.
func (c *TieredCache) Set(key string, value []byte, ttl time.Duration) error {
	durableErr := c.durable.Set(key, value, ttl)
	if durableErr != nil {
		slog.Warn("durable cache tier write failed, memory tier only",
			"key", key,
			"error", durableErr)
		metrics.RecordCacheOperation("durable", "set", "error")
	} else {
		metrics.RecordCacheOperation("durable", "set", "ok")
	}

	c.memory.Set(key, value, ttl)
	metrics.RecordCacheOperation("memory", "set", "ok")

	return durableErr
}
