package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/agent-marketplace/internal/domain/event"
	"github.com/alanyang/agent-marketplace/internal/domain/result"
	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
	portbus "github.com/alanyang/agent-marketplace/internal/port/eventbus"
	portlocker "github.com/alanyang/agent-marketplace/internal/port/locker"
	portnotifier "github.com/alanyang/agent-marketplace/internal/port/notifier"
	portrun "github.com/alanyang/agent-marketplace/internal/port/run"
)

var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrRunInFlight = errors.New("a run for this agent is already in flight")
	ErrRunNotFound = errors.New("run not found")
)

const (
	DefaultDelay = 1500 * time.Millisecond
	DefaultTTL   = time.Hour

	// guardSlack keeps the in-flight key alive a little past the delay in
	// case the holder dies before releasing it.
	guardSlack = 30 * time.Second

	anonymousCaller = "anonymous"
)

// MockSource resolves the canned response for an agent id.
type MockSource interface {
	Mock(agentID string) (json.RawMessage, bool)
}

type Config struct {
	Delay time.Duration // zero means DefaultDelay
	TTL   time.Duration // zero means DefaultTTL
}

// Service simulates agent runs: a fixed delay followed by the agent's mock
// response, or the standard error object when none exists.
type Service struct {
	mocks    MockSource
	store    portrun.Store
	guard    portlocker.Guard
	bus      portbus.EventBus
	notifier portnotifier.RunNotifier
	delay    time.Duration
	ttl      time.Duration

	life context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewService wires the simulator. notifier may be nil when no caller needs
// to hear about background runs.
func NewService(
	mocks MockSource,
	store portrun.Store,
	guard portlocker.Guard,
	bus portbus.EventBus,
	notifier portnotifier.RunNotifier,
	cfg Config,
) *Service {
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	life, stop := context.WithCancel(context.Background())
	return &Service{
		mocks:    mocks,
		store:    store,
		guard:    guard,
		bus:      bus,
		notifier: notifier,
		delay:    cfg.Delay,
		ttl:      cfg.TTL,
		life:     life,
		stop:     stop,
	}
}

type callerCtxKey struct{}

// WithCaller scopes the re-entry guard to one caller. Runs started without a
// caller share one "anonymous" slot per agent, so two anonymous runs of the
// same agent cannot overlap.
func WithCaller(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, callerCtxKey{}, key)
}

func callerFrom(ctx context.Context) string {
	if key, ok := ctx.Value(callerCtxKey{}).(string); ok && key != "" {
		return key
	}
	return anonymousCaller
}

// Delay is the artificial wait applied to every run.
func (s *Service) Delay() time.Duration { return s.delay }

// Run blocks for the configured delay and returns the completed run.
// An unknown agent id is not an error; its payload is the standard error object.
func (s *Service) Run(ctx context.Context, agentID, prompt string) (domainrun.Run, error) {
	r, key, err := s.begin(ctx, agentID, prompt)
	if err != nil {
		return domainrun.Run{}, err
	}
	defer s.release(context.WithoutCancel(ctx), key, r.ID)

	if err := s.execute(ctx, &r); err != nil {
		s.abandon(context.WithoutCancel(ctx), r)
		return domainrun.Run{}, fmt.Errorf("run agent %s: %w", agentID, err)
	}
	return r, nil
}

// Start launches a run in the background and returns it while still pending.
// When it completes the caller set with WithCaller is notified.
func (s *Service) Start(ctx context.Context, agentID, prompt string) (domainrun.Run, error) {
	r, key, err := s.begin(ctx, agentID, prompt)
	if err != nil {
		return domainrun.Run{}, err
	}
	pending := r
	caller := callerFrom(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stopAfter := context.AfterFunc(s.life, cancel)
		defer stopAfter()
		defer s.release(context.WithoutCancel(bg), key, r.ID)

		if err := s.execute(bg, &r); err != nil {
			slog.WarnContext(bg, "background run abandoned", "run_id", r.ID, "agent_id", r.AgentID, "error", err)
			s.abandon(context.WithoutCancel(bg), r)
			return
		}
		if s.notifier == nil || caller == anonymousCaller {
			return
		}
		if err := s.notifier.NotifyRun(bg, caller, r); err != nil {
			slog.ErrorContext(bg, "failed to notify run caller", "run_id", r.ID, "caller", caller, "error", err)
		}
	}()

	return pending, nil
}

// Get returns a stored run.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domainrun.Run, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, portrun.ErrNotFound) {
			return domainrun.Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
		}
		return domainrun.Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// Shutdown cancels background runs and waits for them to unwind.
func (s *Service) Shutdown(ctx context.Context) error {
	s.stop()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for background runs: %w", ctx.Err())
	}
}

func (s *Service) begin(ctx context.Context, agentID, prompt string) (domainrun.Run, string, error) {
	if strings.TrimSpace(prompt) == "" {
		return domainrun.Run{}, "", ErrEmptyPrompt
	}

	r := domainrun.New(agentID, prompt)
	key := agentID + "|" + callerFrom(ctx)
	ok, err := s.guard.TryAcquire(ctx, key, r.ID.String(), s.delay+guardSlack)
	if err != nil {
		return domainrun.Run{}, "", fmt.Errorf("acquire run guard: %w", err)
	}
	if !ok {
		return domainrun.Run{}, "", ErrRunInFlight
	}

	s.save(ctx, r)
	if err := s.bus.Publish(ctx, event.New(event.TypeRunStarted, r.ID.String()).ForAgent(agentID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish RunStarted event", "run_id", r.ID, "error", err)
	}
	return r, key, nil
}

func (s *Service) execute(ctx context.Context, r *domainrun.Run) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	payload, found := s.mocks.Mock(r.AgentID)
	if !found {
		payload = result.FailurePayload(result.MsgNoMockResponse)
	}
	r.Complete(payload, found)
	s.save(ctx, *r)

	if err := s.bus.Publish(ctx, event.New(event.TypeRunCompleted, r.ID.String()).ForAgent(r.AgentID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish RunCompleted event", "run_id", r.ID, "error", err)
	}
	slog.InfoContext(ctx, "run completed", "run_id", r.ID, "agent_id", r.AgentID, "found", found, "duration", r.Duration())
	return nil
}

// save is best effort; the run store is a cache for later lookups.
func (s *Service) save(ctx context.Context, r domainrun.Run) {
	if err := s.store.Save(ctx, r, s.ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store run", "run_id", r.ID, "error", err)
	}
}

// abandon records that a run will never complete so lookups stop reporting
// it as pending.
func (s *Service) abandon(ctx context.Context, r domainrun.Run) {
	r.Abandon()
	s.save(ctx, r)
}

func (s *Service) release(ctx context.Context, key string, token uuid.UUID) {
	if err := s.guard.Release(ctx, key, token.String()); err != nil {
		slog.ErrorContext(ctx, "failed to release run guard", "key", key, "error", err)
	}
}
