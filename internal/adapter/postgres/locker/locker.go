package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Guard implements port/locker.Guard with a lease table. A key is held while
// its row exists and has not expired, so a crashed server cannot hold a key
// past its ttl.
type Guard struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Guard {
	return &Guard{pool: pool}
}

// TryAcquire inserts the lease, or takes over an expired one. It never waits.
func (g *Guard) TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	const q = `
		INSERT INTO marketplace_run_leases (key, token, expires_at)
		VALUES ($1, $2, now() + $3 * interval '1 millisecond')
		ON CONFLICT (key) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
		WHERE marketplace_run_leases.expires_at <= now()`

	tag, err := g.pool.Exec(ctx, q, key, token, ttl.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", key, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Release drops the lease if it is still held under token. A lease that
// expired and was taken over is left to its new holder.
func (g *Guard) Release(ctx context.Context, key, token string) error {
	const q = `DELETE FROM marketplace_run_leases WHERE key = $1 AND token = $2`
	if _, err := g.pool.Exec(ctx, q, key, token); err != nil {
		return fmt.Errorf("release lease %s: %w", key, err)
	}
	return nil
}
