package localstate

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of redis.Cmdable the state needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisState keeps values without expiry, mirroring browser local storage.
type RedisState struct {
	client redisClient
}

func NewRedisState(client redis.Cmdable) *RedisState {
	return &RedisState{client: client}
}

// NewRedisStateFromURL parses a redis:// URL such as REDIS_URL.
func NewRedisStateFromURL(url string) (*RedisState, *redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	return &RedisState{client: client}, client, nil
}

func (s *RedisState) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *RedisState) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisState) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
