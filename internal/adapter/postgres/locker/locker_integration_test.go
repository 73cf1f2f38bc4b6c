//go:build integration

package locker_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pglocker "github.com/alanyang/agent-marketplace/internal/adapter/postgres/locker"
	"github.com/alanyang/agent-marketplace/internal/testutil"
)

func TestGuard_AcquireRelease(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	g := pglocker.New(pool)
	ctx := context.Background()
	key := "1|test-" + uuid.NewString()

	ok, err := g.TryAcquire(ctx, key, "t1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.TryAcquire(ctx, key, "t2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held key cannot be acquired twice")

	require.NoError(t, g.Release(ctx, key, "t1"))

	ok, err = g.TryAcquire(ctx, key, "t3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, g.Release(ctx, key, "t3"))
}

func TestGuard_ExpiredLeaseIsTakenOver(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	g := pglocker.New(pool)
	ctx := context.Background()
	key := "2|test-" + uuid.NewString()

	ok, err := g.TryAcquire(ctx, key, "old", 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)

	ok, err = g.TryAcquire(ctx, key, "new", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// The expired holder's release leaves the new lease in place.
	require.NoError(t, g.Release(ctx, key, "old"))
	ok, err = g.TryAcquire(ctx, key, "third", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, g.Release(ctx, key, "new"))
}

func TestGuard_ReleaseUnknownKey(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	assert.NoError(t, pglocker.New(pool).Release(context.Background(), "never-held", "t"))
}
