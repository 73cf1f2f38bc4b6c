package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const guardPrefix = "marketplace:inflight:"

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Guard implements port/locker.Guard with SET NX so that several server
// instances sharing one Redis reject the same duplicate run.
type Guard struct {
	client *goredis.Client
}

func NewGuard(client *goredis.Client) *Guard {
	return &Guard{client: client}
}

func (g *Guard) TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardPrefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring guard %s: %w", key, err)
	}
	return ok, nil
}

func (g *Guard) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{guardPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("releasing guard %s: %w", key, err)
	}
	return nil
}
