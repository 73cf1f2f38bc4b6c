package notifier

import (
	"context"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
)

// RunNotifier pushes a finished background run to whoever started it.
// callerKey identifies the caller the same way the run service's re-entry
// guard does (an MCP session id, for example). Unknown callers are a no-op.
type RunNotifier interface {
	NotifyRun(ctx context.Context, callerKey string, r domainrun.Run) error
}
