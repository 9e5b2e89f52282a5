package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheGet returns the cached bytes for key. A nil Redis client is a permanent miss.
func (s *Service) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	if s.Redis == nil {
		return nil, false, nil
	}
	val, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *Service) CacheSet(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Set(ctx, key, value, ttl).Err()
}

// Allow is a fixed-window counter: at most limit hits per window for key.
// It fails open when Redis is missing or unreachable.
func (s *Service) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if s.Redis == nil || limit <= 0 {
		return true, nil
	}
	key = "ratelimit:" + key
	n, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := s.Redis.Expire(ctx, key, window).Err(); err != nil {
			return true, err
		}
	}
	return n <= int64(limit), nil
}
