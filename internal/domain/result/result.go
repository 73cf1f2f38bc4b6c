package result

import (
	"encoding/json"
	"fmt"
)

// Kind declares which shape an agent's mock output has. It drives both schema
// checks at load time and the renderer chosen by the web layer.
type Kind string

const (
	KindShopping  Kind = "shopping"
	KindSummary   Kind = "summary"
	KindItinerary Kind = "itinerary"
	KindGeneric   Kind = "generic"
)

// ParseKind maps a declared kind to a known Kind. Anything unrecognised is
// generic.
func ParseKind(s string) Kind {
	switch k := Kind(s); k {
	case KindShopping, KindSummary, KindItinerary:
		return k
	default:
		return KindGeneric
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// Result is a decoded mock response.
type Result interface {
	Kind() Kind
}

type Product struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

type Shopping struct {
	BestRecommendation Product   `json:"bestRecommendation"`
	Reasoning          string    `json:"reasoning"`
	TopResults         []Product `json:"topResults,omitempty"`
}

func (Shopping) Kind() Kind { return KindShopping }

// OtherOptions returns at most three of the top results.
func (s Shopping) OtherOptions() []Product {
	if len(s.TopResults) > 3 {
		return s.TopResults[:3]
	}
	return s.TopResults
}

type Summary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

func (Summary) Kind() Kind { return KindSummary }

type Day struct {
	Day        int      `json:"day"`
	Location   string   `json:"location"`
	Activities []string `json:"activities"`
}

type Itinerary struct {
	Destination     string   `json:"destination"`
	Duration        string   `json:"duration"`
	Budget          string   `json:"budget"`
	Schedule        []Day    `json:"schedule"`
	Recommendations []string `json:"recommendations"`
}

type Travel struct {
	Itinerary Itinerary `json:"itinerary"`
}

func (Travel) Kind() Kind { return KindItinerary }

// Generic carries a payload no specific renderer exists for.
type Generic struct {
	Raw json.RawMessage
}

func (Generic) Kind() Kind { return KindGeneric }

// Failure is the error object surfaced in place of a result.
type Failure struct {
	Error string `json:"error"`
}

func (Failure) Kind() Kind { return KindGeneric }

const (
	MsgNoMockResponse = "No mock response available for this agent"
	MsgLoadFailed     = "Failed to load response"
)

// FailurePayload returns the JSON error object for msg.
func FailurePayload(msg string) json.RawMessage {
	b, _ := json.Marshal(Failure{Error: msg})
	return b
}

// Decode turns a raw payload into the variant declared by kind. A payload
// that carries an "error" member decodes to Failure regardless of kind.
func Decode(kind Kind, raw json.RawMessage) (Result, error) {
	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		return Failure{Error: *envelope.Error}, nil
	}

	var (
		out Result
		err error
	)
	switch kind {
	case KindShopping:
		var v Shopping
		err = json.Unmarshal(raw, &v)
		out = v
	case KindSummary:
		var v Summary
		err = json.Unmarshal(raw, &v)
		out = v
	case KindItinerary:
		var v Travel
		err = json.Unmarshal(raw, &v)
		out = v
	default:
		return Generic{Raw: raw}, nil
	}
	if err != nil {
		return Generic{Raw: raw}, fmt.Errorf("decode %s result: %w", kind, err)
	}
	return out, nil
}
