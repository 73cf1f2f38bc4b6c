package catalog

import (
	"encoding/json"
	"time"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
)

// Data is what a source yields: the agent list and the mock responses keyed
// by agent id.
type Data struct {
	Agents        []domainagent.Agent
	MockResponses map[string]json.RawMessage
}

// Snapshot is an immutable, loaded catalog.
type Snapshot struct {
	Data
	Source   string
	LoadedAt time.Time
}

func NewSnapshot(d Data, source string) *Snapshot {
	if d.MockResponses == nil {
		d.MockResponses = map[string]json.RawMessage{}
	}
	return &Snapshot{Data: d, Source: source, LoadedAt: time.Now().UTC()}
}

// Mock returns the canned response for an agent id.
func (s *Snapshot) Mock(agentID string) (json.RawMessage, bool) {
	raw, ok := s.MockResponses[agentID]
	return raw, ok
}
