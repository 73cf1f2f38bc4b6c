package memory_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-marketplace/internal/adapter/memory"
	"github.com/alanyang/agent-marketplace/internal/domain/event"
	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
	portrun "github.com/alanyang/agent-marketplace/internal/port/run"
)

func TestRunStore_SaveGet(t *testing.T) {
	s := memory.NewRunStore()
	ctx := context.Background()

	r := domainrun.New("1", "find me a phone")
	r.Complete(json.RawMessage(`{"ok":true}`), true)
	require.NoError(t, s.Save(ctx, r, time.Minute))

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, domainrun.StatusCompleted, got.Status)
	assert.JSONEq(t, `{"ok":true}`, string(got.Payload))
}

func TestRunStore_Missing(t *testing.T) {
	s := memory.NewRunStore()
	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, portrun.ErrNotFound)
}

func TestRunStore_Expired(t *testing.T) {
	s := memory.NewRunStore()
	ctx := context.Background()
	r := domainrun.New("1", "p")
	require.NoError(t, s.Save(ctx, r, -time.Second))

	_, err := s.Get(ctx, r.ID)
	assert.ErrorIs(t, err, portrun.ErrNotFound)
	assert.Equal(t, 0, s.Len(), "expired entry should be evicted on read")
}

func TestRunStore_SaveSweepsExpired(t *testing.T) {
	s := memory.NewRunStore()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Save(ctx, domainrun.New("1", "p"), time.Millisecond))
	}
	require.Equal(t, 100, s.Len())
	time.Sleep(20 * time.Millisecond)

	live := domainrun.New("2", "p")
	require.NoError(t, s.Save(ctx, live, time.Minute))
	assert.Equal(t, 1, s.Len(), "expired runs are dropped on the next save")

	_, err := s.Get(ctx, live.ID)
	assert.NoError(t, err)
}

func TestEventBus_DeliversByChannel(t *testing.T) {
	bus := memory.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []event.Type
	)
	received := make(chan struct{}, 4)
	sub, err := bus.Subscribe(ctx, event.ChannelRun, func(_ context.Context, e event.Event) {
		mu.Lock()
		got = append(got, e.Type)
		mu.Unlock()
		received <- struct{}{}
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeCatalogLoaded, "embedded")))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeRunStarted, uuid.NewString())))
	require.NoError(t, bus.Publish(ctx, event.New(event.TypeRunCompleted, uuid.NewString())))

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []event.Type{event.TypeRunStarted, event.TypeRunCompleted}, got)
}

func TestEventBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := memory.NewEventBus()
	ctx := context.Background()

	calls := make(chan struct{}, 1)
	sub, err := bus.Subscribe(ctx, event.ChannelRun, func(context.Context, event.Event) {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(ctx, event.New(event.TypeRunStarted, "x")))
	select {
	case <-calls:
		t.Fatal("handler called after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGuard(t *testing.T) {
	g := memory.NewGuard()
	ctx := context.Background()

	ok, err := g.TryAcquire(ctx, "1|caller", "t1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.TryAcquire(ctx, "1|caller", "t2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire of a held key")

	ok, err = g.TryAcquire(ctx, "1|other", "t3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "different caller is independent")

	require.NoError(t, g.Release(ctx, "1|caller", "t1"))
	ok, err = g.TryAcquire(ctx, "1|caller", "t4", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuard_ExpiredHolder(t *testing.T) {
	g := memory.NewGuard()
	ctx := context.Background()

	ok, _ := g.TryAcquire(ctx, "k", "old", time.Millisecond)
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	ok, err := g.TryAcquire(ctx, "k", "new", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// The late release of the expired holder must not free the new lease.
	require.NoError(t, g.Release(ctx, "k", "old"))
	ok, err = g.TryAcquire(ctx, "k", "third", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
