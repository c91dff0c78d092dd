package memory

import (
	"context"
	"sync"
)

// KVStore is an in-process implementation of app.KeyValueStore.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVStore() *KVStore {
	return &KVStore{values: make(map[string]string)}
}

func (s *KVStore) GetString(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *KVStore) SetString(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
