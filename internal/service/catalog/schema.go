package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/alanyang/agent-marketplace/internal/domain/result"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// ErrValidation marks a mock response that does not fit its declared kind.
var ErrValidation = errors.New("validation failed")

// Validator checks mock responses against the schema of a result kind.
// Kinds without a schema always pass.
type Validator struct {
	schemas map[result.Kind]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	schemas := make(map[result.Kind]*jsonschema.Schema)
	for _, kind := range []result.Kind{result.KindShopping, result.KindSummary, result.KindItinerary} {
		data, err := schemaFiles.ReadFile("schemas/" + string(kind) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read %s schema: %w", kind, err)
		}
		id := "https://marketplace.local/schemas/" + string(kind) + ".json"
		schema, err := jsonschema.CompileString(id, string(data))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		schemas[kind] = schema
	}
	return &Validator{schemas: schemas}, nil
}

func (v *Validator) Validate(kind result.Kind, raw json.RawMessage) error {
	schema, ok := v.schemas[kind]
	if !ok {
		return nil
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
