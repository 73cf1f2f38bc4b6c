package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
	portrun "github.com/alanyang/agent-marketplace/internal/port/run"
)

const keyPrefix = "marketplace:run:"

// RunStore keeps runs in Redis as JSON with a per-key expiry.
type RunStore struct {
	client *goredis.Client
}

func New(client *goredis.Client) *RunStore {
	return &RunStore{client: client}
}

// Connect opens a client and verifies the server answers PING.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RunStore) Save(ctx context.Context, r domainrun.Run, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling run: %w", err)
	}
	if err := s.client.Set(ctx, key(r.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("storing run %s: %w", r.ID, err)
	}
	return nil
}

func (s *RunStore) Get(ctx context.Context, id uuid.UUID) (domainrun.Run, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domainrun.Run{}, portrun.ErrNotFound
		}
		return domainrun.Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}

	var r domainrun.Run
	if err := json.Unmarshal(data, &r); err != nil {
		return domainrun.Run{}, fmt.Errorf("unmarshaling run %s: %w", id, err)
	}
	return r, nil
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}
