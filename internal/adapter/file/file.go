package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	domaincatalog "github.com/alanyang/agent-marketplace/internal/domain/catalog"
)

const (
	AgentsFile        = "agents.json"
	MockResponsesFile = "mockResponses.json"
)

// Source reads agents.json and mockResponses.json from a directory.
type Source struct {
	dir string
}

func New(dir string) *Source {
	return &Source{dir: dir}
}

func (s *Source) Name() string { return "file:" + s.dir }

func (s *Source) Load(ctx context.Context) (domaincatalog.Data, error) {
	return LoadFS(ctx, os.DirFS(s.dir), ".")
}

// LoadFS reads both data files from dir inside fsys. The two files are read
// independently: if only the mock responses fail, the agents are still
// returned together with the error.
func LoadFS(_ context.Context, fsys fs.FS, dir string) (domaincatalog.Data, error) {
	var d domaincatalog.Data

	raw, err := fs.ReadFile(fsys, path.Join(dir, AgentsFile))
	if err != nil {
		return d, fmt.Errorf("reading %s: %w", AgentsFile, err)
	}
	if err := json.Unmarshal(raw, &d.Agents); err != nil {
		return domaincatalog.Data{}, fmt.Errorf("parsing %s: %w", AgentsFile, err)
	}
	if d.Agents == nil {
		d.Agents = []domainagent.Agent{}
	}

	raw, err = fs.ReadFile(fsys, path.Join(dir, MockResponsesFile))
	if err != nil {
		return d, fmt.Errorf("reading %s: %w", MockResponsesFile, err)
	}
	if err := json.Unmarshal(raw, &d.MockResponses); err != nil {
		return d, fmt.Errorf("parsing %s: %w", MockResponsesFile, err)
	}
	return d, nil
}
