package memory

import (
	"context"
	"sync"
	"time"
)

type lease struct {
	token     string
	expiresAt time.Time
}

// Guard is an in-process implementation of port/locker.Guard.
type Guard struct {
	mu   sync.Mutex
	held map[string]lease
}

func NewGuard() *Guard {
	return &Guard{held: make(map[string]lease)}
}

func (g *Guard) TryAcquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if l, ok := g.held[key]; ok && now.Before(l.expiresAt) {
		return false, nil
	}
	g.held[key] = lease{token: token, expiresAt: now.Add(ttl)}
	return true, nil
}

func (g *Guard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	if l, ok := g.held[key]; ok && l.token == token {
		delete(g.held, key)
	}
	g.mu.Unlock()
	return nil
}
