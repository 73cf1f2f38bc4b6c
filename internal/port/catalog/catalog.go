package catalog

import (
	"context"

	domaincatalog "github.com/alanyang/agent-marketplace/internal/domain/catalog"
)

// Source loads the agent list and mock responses from one place.
// Embedded data, a directory of JSON files and Postgres are all valid sources.
type Source interface {
	Name() string

	// Load returns whatever the source could read. A non-nil error with
	// non-empty Agents means the mock responses could not be read.
	Load(ctx context.Context) (domaincatalog.Data, error)
}
