package wire

import (
	"context"
	"log/slog"
	"time"

	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
)

// startRefresher reloads the catalog every interval until ctx is done, so
// edits to a file or database source show up without a restart.
func startRefresher(ctx context.Context, catalog *catalogsvc.Service, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				snap := catalog.Reload(ctx)
				slog.DebugContext(ctx, "refresher: catalog reloaded",
					"source", snap.Source, "agents", len(snap.Agents))
			}
		}
	}()
}
