package cache

import (
	"context"
	"sync"
	"time"
)

// IdempotencyStore remembers request keys so mutating endpoints can reject
// accidental replays. Remember reports whether the key was seen for the
// first time within the TTL window.
type IdempotencyStore interface {
	Remember(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// InMemoryIdempotencyStore implements IdempotencyStore using an in-memory
// map. Suitable for single-instance deployments and testing.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewInMemoryIdempotencyStore creates an in-memory idempotency store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
	}
}

// Remember reports whether the key is new and marks it seen
func (s *InMemoryIdempotencyStore) Remember(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Lazy eviction keeps the map from growing without a cleanup goroutine.
	// Idempotency keys are short-lived and low-volume.
	for k, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, k)
		}
	}

	if expiresAt, exists := s.entries[key]; exists && now.Before(expiresAt) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}
