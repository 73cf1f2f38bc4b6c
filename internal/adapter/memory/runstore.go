package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
	portrun "github.com/alanyang/agent-marketplace/internal/port/run"
)

type runEntry struct {
	run       domainrun.Run
	expiresAt time.Time
}

// RunStore keeps runs in process memory. Expired entries are dropped on read
// and swept on every save, so the map only holds runs within their ttl.
type RunStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]runEntry
}

func NewRunStore() *RunStore {
	return &RunStore{
		entries: make(map[uuid.UUID]runEntry),
	}
}

func (s *RunStore) Save(_ context.Context, r domainrun.Run, ttl time.Duration) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[r.ID] = runEntry{
		run:       r,
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (s *RunStore) Get(_ context.Context, id uuid.UUID) (domainrun.Run, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return domainrun.Run{}, portrun.ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return domainrun.Run{}, portrun.ErrNotFound
	}
	return entry.run, nil
}

// Len reports how many entries are held, expired or not.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
