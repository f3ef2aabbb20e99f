package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moi-restaurants/tracker/core/localstore"
)

// LocalStore is a localstore.Store shared by every process connected to the same server,
// so tabs of one visitor served by different instances see the same session blob.
type LocalStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewLocalStore stores keys as prefix+key. Every Set refreshes the key's ttl; zero ttl
// keeps keys forever.
func NewLocalStore(client redis.UniversalClient, prefix string, ttl time.Duration) *LocalStore {
	return &LocalStore{client: client, prefix: prefix, ttl: max(ttl, 0)}
}

func (s *LocalStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", localstore.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, nil
}

func (s *LocalStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: remove %s: %w", key, err)
	}
	return nil
}
