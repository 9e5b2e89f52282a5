package flights

import (
	"context"
	"encoding/json"
	"time"

	"flightclaim/backend/internal/logger"
)

// Searcher is satisfied by *Client and *Cached.
type Searcher interface {
	Search(ctx context.Context, q Query) (*SearchResult, error)
}

// Cache is the byte cache the results are stored in (Redis in production).
type Cache interface {
	CacheGet(ctx context.Context, key string) ([]byte, bool, error)
	CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached memoises search results. Cache failures are logged and bypassed.
type Cached struct {
	next  Searcher
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

func NewCached(next Searcher, cache Cache, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	key := q.CacheKey()

	if raw, ok, err := c.cache.CacheGet(ctx, key); err != nil {
		c.log.Warn("flight cache read failed", "key", key, "error", err)
	} else if ok {
		var cached SearchResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	res, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		if raw, err := json.Marshal(res); err == nil {
			if err := c.cache.CacheSet(ctx, key, raw, c.ttl); err != nil {
				c.log.Warn("flight cache write failed", "key", key, "error", err)
			}
		}
	}
	return res, nil
}
