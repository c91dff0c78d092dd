package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KVStore keeps string blobs in Redis under a fixed prefix.
// A zero ttl stores keys without expiry.
type KVStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewKVStore(client *redis.Client, prefix string, ttl time.Duration) *KVStore {
	return &KVStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *KVStore) GetString(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) SetString(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) key(key string) string {
	return s.prefix + key
}
