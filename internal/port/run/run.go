package run

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
)

var ErrNotFound = errors.New("run not found")

// Store keeps runs for a bounded time so they can be fetched by id.
type Store interface {
	Save(ctx context.Context, r domainrun.Run, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (domainrun.Run, error)
}
