// Package preferences exposes the host's persisted payment-method settings.
// The gateway only ever reads the two credential preferences; environment
// variables, when present, take priority over anything stored here.
package preferences

import (
	"context"
	"errors"
	"sync"
)

// Preference names the gateway resolves.
const (
	SecretKey      = "secret_key"
	PublishableKey = "publishable_key"
)

var ErrNotFound = errors.New("preference not found")

// Store reads persisted preference values by name.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}

// MemoryStore is a Store backed by an in-process map, for tests and hosts
// that configure the gateway entirely from the environment.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}
