package locker

import (
	"context"
	"time"
)

// Guard admits at most one holder per key. It never blocks: a key that is
// already held is reported as not acquired. The ttl bounds how long a holder
// that never releases can keep the key. Release only removes the key while
// it is still held under the same token.
type Guard interface {
	TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}
