// Package embedded serves the catalog data compiled into the binary. It is
// the last-resort source when nothing else can be read.
package embedded

import (
	"context"
	"embed"

	"github.com/alanyang/agent-marketplace/internal/adapter/file"
	domaincatalog "github.com/alanyang/agent-marketplace/internal/domain/catalog"
)

//go:embed data/*.json
var data embed.FS

type Source struct{}

func New() *Source { return &Source{} }

func (s *Source) Name() string { return "embedded" }

func (s *Source) Load(ctx context.Context) (domaincatalog.Data, error) {
	return file.LoadFS(ctx, data, "data")
}
