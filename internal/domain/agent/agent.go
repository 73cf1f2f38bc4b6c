package agent

import (
	"errors"

	"github.com/alanyang/agent-marketplace/internal/domain/result"
)

var ErrNotFound = errors.New("agent not found")

// Agent is a catalog entry. Agents are loaded once and never mutated.
type Agent struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Tags            []string    `json:"tags"`
	Icon            Icon        `json:"icon"`
	Category        string      `json:"category"`
	PopularityScore float64     `json:"popularityScore"`
	UsageCount      int         `json:"usageCount"`
	ResultKind      result.Kind `json:"resultKind,omitempty"`
	SamplePrompts   []string    `json:"samplePrompts,omitempty"`
}

func (a *Agent) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAllTags reports whether every tag in required is present on the agent.
func (a *Agent) HasAllTags(required []string) bool {
	for _, req := range required {
		if !a.HasTag(req) {
			return false
		}
	}
	return true
}

// Kind returns the declared result kind, generic when none was declared.
func (a *Agent) Kind() result.Kind {
	if a.ResultKind == "" {
		return result.KindGeneric
	}
	return a.ResultKind
}

// FindByID returns the agent with the given id.
func FindByID(agents []Agent, id string) (Agent, error) {
	for _, a := range agents {
		if a.ID == id {
			return a, nil
		}
	}
	return Agent{}, ErrNotFound
}
