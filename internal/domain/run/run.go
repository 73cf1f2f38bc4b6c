package run

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Run is one simulated invocation of an agent.
type Run struct {
	ID          uuid.UUID       `json:"id"`
	AgentID     string          `json:"agent_id"`
	Prompt      string          `json:"prompt"`
	Status      Status          `json:"status"`
	Found       bool            `json:"found"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func New(agentID, prompt string) Run {
	return Run{
		ID:        uuid.New(),
		AgentID:   agentID,
		Prompt:    prompt,
		Status:    StatusPending,
		StartedAt: time.Now().UTC(),
	}
}

// Complete records the payload and marks the run finished.
func (r *Run) Complete(payload json.RawMessage, found bool) {
	now := time.Now().UTC()
	r.Payload = payload
	r.Found = found
	r.Status = StatusCompleted
	r.CompletedAt = &now
}

// Abandon marks a run whose wait was cut short. It carries no payload.
func (r *Run) Abandon() {
	now := time.Now().UTC()
	r.Status = StatusAbandoned
	r.CompletedAt = &now
}

func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return time.Since(r.StartedAt)
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
