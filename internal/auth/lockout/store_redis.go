package lockout

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts failures in Redis. This is the production-recommended
// implementation for distributed deployments where multiple instances must
// share throttle state.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed failure store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment bumps the window counter atomically. The expiry is attached only
// when the key is created so the window is fixed, not sliding.
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	var count *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count.Val(), nil
}

func (s *RedisStore) Count(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
