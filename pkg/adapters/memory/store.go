package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/formflow/pkg/domain"
)

// Store implements ports.BlobStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Seed creates a store already holding value under key.
// The stateless HTTP host uses it to replay the record a client sent.
func Seed(key string, value []byte) *Store {
	s := NewStore()
	if value != nil {
		s.data[key] = slices.Clone(value)
	}
	return s
}

// Set stores a copy of value so later mutation by the caller has no effect.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	copied := slices.Clone(value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Get returns a copy of the stored value.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(value), nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
