package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	domaincatalog "github.com/alanyang/agent-marketplace/internal/domain/catalog"
	"github.com/alanyang/agent-marketplace/internal/domain/event"
	portcatalog "github.com/alanyang/agent-marketplace/internal/port/catalog"
	portbus "github.com/alanyang/agent-marketplace/internal/port/eventbus"
)

// SourceNone names the snapshot used when every source failed.
const SourceNone = "none"

// Facets are the distinct categories and tags offered by the filter UI.
type Facets struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// Service owns the loaded catalog and answers every read against it.
// Reads never block on a reload; they see either the old or the new snapshot.
type Service struct {
	sources   []portcatalog.Source
	validator *Validator
	bus       portbus.EventBus
	snap      atomic.Pointer[domaincatalog.Snapshot]
	reloads   singleflight.Group
}

// NewService tries sources in order on every load. The service starts with an
// empty snapshot until Reload is called.
func NewService(bus portbus.EventBus, validator *Validator, sources ...portcatalog.Source) *Service {
	s := &Service{sources: sources, validator: validator, bus: bus}
	s.snap.Store(domaincatalog.NewSnapshot(domaincatalog.Data{}, SourceNone))
	return s
}

// Reload reads the catalog from the first source that yields agents and
// swaps it in. It never fails: when nothing loads, the catalog is empty.
// Concurrent callers share one load.
func (s *Service) Reload(ctx context.Context) *domaincatalog.Snapshot {
	v, _, _ := s.reloads.Do("reload", func() (interface{}, error) {
		return s.reload(ctx), nil
	})
	return v.(*domaincatalog.Snapshot)
}

func (s *Service) reload(ctx context.Context) *domaincatalog.Snapshot {
	snap := s.load(ctx)
	s.validate(ctx, snap)
	s.snap.Store(snap)

	slog.InfoContext(ctx, "catalog loaded",
		"source", snap.Source, "agents", len(snap.Agents), "mock_responses", len(snap.MockResponses))

	if err := s.bus.Publish(ctx, event.New(event.TypeCatalogLoaded, snap.Source)); err != nil {
		slog.ErrorContext(ctx, "failed to publish CatalogLoaded event", "source", snap.Source, "error", err)
	}
	return snap
}

func (s *Service) load(ctx context.Context) *domaincatalog.Snapshot {
	for _, src := range s.sources {
		data, err := src.Load(ctx)
		if err != nil && len(data.Agents) == 0 {
			slog.ErrorContext(ctx, "catalog source failed", "source", src.Name(), "error", err)
			continue
		}
		if err != nil {
			// Agents and mocks are fetched independently; keep the agents.
			slog.WarnContext(ctx, "mock responses unavailable", "source", src.Name(), "error", err)
			data.MockResponses = nil
		}
		if len(data.Agents) == 0 {
			slog.WarnContext(ctx, "catalog source is empty", "source", src.Name())
			continue
		}
		return domaincatalog.NewSnapshot(data, src.Name())
	}
	return domaincatalog.NewSnapshot(domaincatalog.Data{}, SourceNone)
}

// validate logs mock responses that do not fit their agent's result kind.
// The payload is still served verbatim.
func (s *Service) validate(ctx context.Context, snap *domaincatalog.Snapshot) {
	if s.validator == nil {
		return
	}
	for _, a := range snap.Agents {
		raw, ok := snap.Mock(a.ID)
		if !ok {
			continue
		}
		if err := s.validator.Validate(a.Kind(), raw); err != nil {
			slog.WarnContext(ctx, "mock response does not match result kind",
				"agent_id", a.ID, "kind", a.Kind(), "error", err)
		}
	}
}

func (s *Service) Snapshot() *domaincatalog.Snapshot {
	return s.snap.Load()
}

func (s *Service) All() []domainagent.Agent {
	return s.snap.Load().Agents
}

func (s *Service) List(f domainagent.FilterState) []domainagent.Agent {
	return domainagent.Filter(s.snap.Load().Agents, f)
}

func (s *Service) Get(id string) (domainagent.Agent, error) {
	a, err := domainagent.FindByID(s.snap.Load().Agents, id)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("get agent %s: %w", id, err)
	}
	return a, nil
}

func (s *Service) Facets() Facets {
	agents := s.snap.Load().Agents
	return Facets{
		Categories: domainagent.Categories(agents),
		Tags:       domainagent.Tags(agents),
	}
}

func (s *Service) Featured(n int) []domainagent.Agent {
	return domainagent.Featured(s.snap.Load().Agents, n)
}

// Mock returns the canned response for an agent id.
func (s *Service) Mock(agentID string) (json.RawMessage, bool) {
	return s.snap.Load().Mock(agentID)
}
