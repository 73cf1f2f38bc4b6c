package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	domaincatalog "github.com/alanyang/agent-marketplace/internal/domain/catalog"
	"github.com/alanyang/agent-marketplace/internal/domain/event"
	"github.com/alanyang/agent-marketplace/internal/domain/result"
	"github.com/alanyang/agent-marketplace/internal/mocks"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func sampleData() domaincatalog.Data {
	return domaincatalog.Data{
		Agents: []domainagent.Agent{
			{ID: "1", Name: "Shopper", Category: "Shopping", Tags: []string{"budget"}, PopularityScore: 4.1, ResultKind: result.KindShopping},
			{ID: "2", Name: "Writer", Category: "Writing", Tags: []string{"summary"}, PopularityScore: 4.9, ResultKind: result.KindSummary},
		},
		MockResponses: map[string]json.RawMessage{
			"2": json.RawMessage(`{"summary":"s","keyPoints":["a"]}`),
		},
	}
}

func newSource(ctrl *gomock.Controller, name string, data domaincatalog.Data, err error) *mocks.MockSource {
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Name().Return(name).AnyTimes()
	src.EXPECT().Load(gomock.Any()).Return(data, err)
	return src
}

func matchEventType(et event.Type) gomock.Matcher {
	return eventTypeMatcher{et}
}

type eventTypeMatcher struct{ want event.Type }

func (m eventTypeMatcher) Matches(x interface{}) bool {
	e, ok := x.(event.Event)
	return ok && e.Type == m.want
}
func (m eventTypeMatcher) String() string { return "event.Type=" + string(m.want) }

// ── Reload ────────────────────────────────────────────────────────────────────

func TestReload(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(ctrl *gomock.Controller) (primary, fallback *mocks.MockSource)
		wantSource string
		wantAgents int
		wantMocks  int
	}{
		{
			name: "primary source wins",
			setup: func(ctrl *gomock.Controller) (*mocks.MockSource, *mocks.MockSource) {
				primary := newSource(ctrl, "file:/data", sampleData(), nil)
				fallback := mocks.NewMockSource(ctrl)
				return primary, fallback
			},
			wantSource: "file:/data",
			wantAgents: 2,
			wantMocks:  1,
		},
		{
			name: "primary failure falls back",
			setup: func(ctrl *gomock.Controller) (*mocks.MockSource, *mocks.MockSource) {
				primary := newSource(ctrl, "postgres", domaincatalog.Data{}, errors.New("connection refused"))
				fallback := newSource(ctrl, "embedded", sampleData(), nil)
				return primary, fallback
			},
			wantSource: "embedded",
			wantAgents: 2,
			wantMocks:  1,
		},
		{
			name: "empty primary falls back",
			setup: func(ctrl *gomock.Controller) (*mocks.MockSource, *mocks.MockSource) {
				primary := newSource(ctrl, "postgres", domaincatalog.Data{}, nil)
				fallback := newSource(ctrl, "embedded", sampleData(), nil)
				return primary, fallback
			},
			wantSource: "embedded",
			wantAgents: 2,
			wantMocks:  1,
		},
		{
			name: "agents kept when mocks fail",
			setup: func(ctrl *gomock.Controller) (*mocks.MockSource, *mocks.MockSource) {
				d := sampleData()
				primary := newSource(ctrl, "file:/data", d, errors.New("read mockResponses.json"))
				fallback := mocks.NewMockSource(ctrl)
				return primary, fallback
			},
			wantSource: "file:/data",
			wantAgents: 2,
			wantMocks:  0,
		},
		{
			name: "every source fails leaves empty catalog",
			setup: func(ctrl *gomock.Controller) (*mocks.MockSource, *mocks.MockSource) {
				primary := newSource(ctrl, "postgres", domaincatalog.Data{}, errors.New("down"))
				fallback := newSource(ctrl, "embedded", domaincatalog.Data{}, errors.New("corrupt"))
				return primary, fallback
			},
			wantSource: catalogsvc.SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			bus := mocks.NewMockEventBus(ctrl)
			bus.EXPECT().Publish(gomock.Any(), matchEventType(event.TypeCatalogLoaded)).Return(nil)
			primary, fallback := tt.setup(ctrl)

			svc := catalogsvc.NewService(bus, nil, primary, fallback)
			snap := svc.Reload(context.Background())

			assert.Equal(t, tt.wantSource, snap.Source)
			assert.Len(t, snap.Agents, tt.wantAgents)
			assert.Len(t, snap.MockResponses, tt.wantMocks)
			assert.Same(t, snap, svc.Snapshot())
		})
	}
}

func TestReload_PublishErrorIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("bus closed"))
	src := newSource(ctrl, "embedded", sampleData(), nil)

	svc := catalogsvc.NewService(bus, nil, src)
	snap := svc.Reload(context.Background())
	assert.Len(t, snap.Agents, 2)
}

func TestReload_InvalidMockStillServed(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	d := sampleData()
	d.MockResponses["1"] = json.RawMessage(`{"unexpected": true}`)
	src := newSource(ctrl, "embedded", d, nil)

	v, err := catalogsvc.NewValidator()
	require.NoError(t, err)

	svc := catalogsvc.NewService(bus, v, src)
	svc.Reload(context.Background())

	raw, ok := svc.Mock("1")
	require.True(t, ok)
	assert.JSONEq(t, `{"unexpected": true}`, string(raw))
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func newLoadedSvc(t *testing.T) *catalogsvc.Service {
	t.Helper()
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockEventBus(ctrl)
	bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	svc := catalogsvc.NewService(bus, nil, newSource(ctrl, "embedded", sampleData(), nil))
	svc.Reload(context.Background())
	return svc
}

func TestBeforeReload_IsEmpty(t *testing.T) {
	svc := catalogsvc.NewService(nil, nil)
	assert.Empty(t, svc.All())
	assert.Equal(t, catalogsvc.SourceNone, svc.Snapshot().Source)
	_, err := svc.Get("1")
	assert.ErrorIs(t, err, domainagent.ErrNotFound)
}

func TestList(t *testing.T) {
	svc := newLoadedSvc(t)

	writing := "Writing"
	got := svc.List(domainagent.FilterState{Category: &writing})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Len(t, svc.List(domainagent.FilterState{}), 2)
}

func TestGet(t *testing.T) {
	svc := newLoadedSvc(t)

	a, err := svc.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Shopper", a.Name)

	_, err = svc.Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainagent.ErrNotFound)
	assert.Contains(t, err.Error(), "get agent nope")
}

func TestFacetsAndFeatured(t *testing.T) {
	svc := newLoadedSvc(t)

	f := svc.Facets()
	assert.Equal(t, []string{"Shopping", "Writing"}, f.Categories)
	assert.Equal(t, []string{"budget", "summary"}, f.Tags)

	top := svc.Featured(1)
	require.Len(t, top, 1)
	assert.Equal(t, "2", top[0].ID)
}

func TestMock(t *testing.T) {
	svc := newLoadedSvc(t)

	_, ok := svc.Mock("1")
	assert.False(t, ok)

	raw, ok := svc.Mock("2")
	require.True(t, ok)
	assert.JSONEq(t, `{"summary":"s","keyPoints":["a"]}`, string(raw))
}
