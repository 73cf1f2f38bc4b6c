package catalog_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-marketplace/internal/adapter/embedded"
	"github.com/alanyang/agent-marketplace/internal/domain/result"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
)

func TestValidator(t *testing.T) {
	v, err := catalogsvc.NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		kind    result.Kind
		raw     string
		wantErr bool
	}{
		{
			name: "valid shopping",
			kind: result.KindShopping,
			raw:  `{"bestRecommendation":{"name":"A","price":"$1","features":["x"]},"reasoning":"r","topResults":[]}`,
		},
		{
			name:    "shopping without recommendation",
			kind:    result.KindShopping,
			raw:     `{"reasoning":"r"}`,
			wantErr: true,
		},
		{
			name: "valid summary",
			kind: result.KindSummary,
			raw:  `{"summary":"s","keyPoints":["a","b"]}`,
		},
		{
			name:    "summary key points not strings",
			kind:    result.KindSummary,
			raw:     `{"summary":"s","keyPoints":[1]}`,
			wantErr: true,
		},
		{
			name: "valid itinerary",
			kind: result.KindItinerary,
			raw:  `{"itinerary":{"destination":"Japan","schedule":[{"day":1,"activities":["walk"]}]}}`,
		},
		{
			name:    "itinerary day zero",
			kind:    result.KindItinerary,
			raw:     `{"itinerary":{"destination":"Japan","schedule":[{"day":0,"activities":[]}]}}`,
			wantErr: true,
		},
		{
			name: "generic accepts anything",
			kind: result.KindGeneric,
			raw:  `[1,2,3]`,
		},
		{
			name:    "malformed json",
			kind:    result.KindSummary,
			raw:     `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.kind, json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidator_SchemaViolationIsErrValidation(t *testing.T) {
	v, err := catalogsvc.NewValidator()
	require.NoError(t, err)

	err = v.Validate(result.KindSummary, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, catalogsvc.ErrValidation)
}

func TestValidator_BundledDataMatches(t *testing.T) {
	v, err := catalogsvc.NewValidator()
	require.NoError(t, err)

	d, err := embedded.New().Load(context.Background())
	require.NoError(t, err)

	for _, a := range d.Agents {
		raw, ok := d.MockResponses[a.ID]
		if !ok {
			continue
		}
		assert.NoError(t, v.Validate(a.Kind(), raw), "agent %s", a.ID)
	}
}
