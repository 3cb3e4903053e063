package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StateStore holds short-lived OAuth state tokens between the connect
// redirect and the provider callback. A state is bound to the company that
// initiated the flow and can be consumed exactly once.
type StateStore interface {
	// Put stores a state token for a company with a TTL
	Put(ctx context.Context, state string, companyID uuid.UUID, ttl time.Duration) error

	// Consume returns the company bound to a state and deletes it.
	// Unknown or expired states fail with shared.ErrNotFound.
	Consume(ctx context.Context, state string) (uuid.UUID, error)
}

// stateEntry is a stored state with expiration
type stateEntry struct {
	companyID uuid.UUID
	expiresAt time.Time
}

// InMemoryStateStore implements StateStore using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryStateStore struct {
	mu        sync.Mutex
	entries   map[string]stateEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStateStore creates an in-memory state store and starts a
// background goroutine that evicts expired entries
func NewInMemoryStateStore() *InMemoryStateStore {
	store := &InMemoryStateStore{
		entries:  make(map[string]stateEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Put stores a state token for a company with a TTL
func (s *InMemoryStateStore) Put(ctx context.Context, state string, companyID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = stateEntry{
		companyID: companyID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Consume returns the company bound to a state and deletes it
func (s *InMemoryStateStore) Consume(ctx context.Context, state string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[state]
	if !exists {
		return uuid.Nil, shared.ErrNotFound
	}
	delete(s.entries, state)
	if time.Now().After(e.expiresAt) {
		return uuid.Nil, shared.ErrNotFound
	}
	return e.companyID, nil
}

// Close stops the cleanup goroutine
func (s *InMemoryStateStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryStateStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

// evictExpired removes all expired entries
func (s *InMemoryStateStore) evictExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for state, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, state)
		}
	}
}
