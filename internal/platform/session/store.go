// Package session carries authentication state across requests in its two
// parallel forms: a server-side session value with an idle timeout, and a
// signed long-lived identity cookie. Either alone authorizes a request;
// the manager keeps them consistent.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/warelane/stockscan/internal/domain"
)

// Store is the server-side session backing. Get returns nil for unknown or
// expired sessions; Touch slides the idle window.
type Store interface {
	Create(ctx context.Context, id string, identity domain.Identity, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Identity, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Used in development and
// tests; production wires RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	identity  domain.Identity
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Create(_ context.Context, id string, identity domain.Identity, ttl time.Duration) error {
	s.mu.Lock()
	s.sessions[id] = memoryEntry{identity: identity, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	identity := entry.identity
	return &identity, nil
}

func (s *MemoryStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil
	}
	entry.expiresAt = time.Now().Add(ttl)
	s.sessions[id] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
