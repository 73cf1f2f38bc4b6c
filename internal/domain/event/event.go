package event

import (
	"time"
)

type Type string

const (
	TypeRunStarted    Type = "run_started"
	TypeRunCompleted  Type = "run_completed"
	TypeCatalogLoaded Type = "catalog_loaded"
)

// Channel groups event types that subscribers usually want together.
type Channel string

const (
	ChannelRun     Channel = "run"
	ChannelCatalog Channel = "catalog"
)

var typeToChannel = map[Type]Channel{
	TypeRunStarted:    ChannelRun,
	TypeRunCompleted:  ChannelRun,
	TypeCatalogLoaded: ChannelCatalog,
}

// ChannelFor returns the channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the owning service.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  string    `json:"entity_id"`
	AgentID   string    `json:"agent_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, entityID string) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// ForAgent tags the event with the agent it concerns.
func (e Event) ForAgent(agentID string) Event {
	e.AgentID = agentID
	return e
}
