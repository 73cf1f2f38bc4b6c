//go:build integration

package testutil

import (
	"context"
	"sync"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
)

// NotifyCall records a single notification delivered by CaptureNotifier.
type NotifyCall struct {
	CallerKey string
	Run       domainrun.Run
}

// CaptureNotifier is a RunNotifier test double. It is safe for concurrent use.
type CaptureNotifier struct {
	mu    sync.Mutex
	Calls []NotifyCall
}

func (c *CaptureNotifier) NotifyRun(_ context.Context, callerKey string, r domainrun.Run) error {
	c.mu.Lock()
	c.Calls = append(c.Calls, NotifyCall{CallerKey: callerKey, Run: r})
	c.mu.Unlock()
	return nil
}

// For returns the calls made for one caller.
func (c *CaptureNotifier) For(callerKey string) []NotifyCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []NotifyCall
	for _, call := range c.Calls {
		if call.CallerKey == callerKey {
			out = append(out, call)
		}
	}
	return out
}

func (c *CaptureNotifier) Reset() {
	c.mu.Lock()
	c.Calls = nil
	c.mu.Unlock()
}
