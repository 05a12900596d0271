package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore counts hits in Redis. INCR plus a first-hit EXPIRE gives a fixed
// window shared by every server instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Incr increments the counter for key, setting its expiry when the key is new.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
