package agent_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/alanyang/agent-marketplace/internal/domain/agent"
)

func TestParseIcon(t *testing.T) {
	tests := []struct {
		in   string
		want Icon
	}{
		{"shoppingBag", IconShoppingBag},
		{"ShoppingBag", IconShoppingBag},
		{"BarChart2", IconBarChart},
		{"", IconBot},
		{"Rocket", IconBot},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIcon(tt.in))
		})
	}
}

func TestIcon_UnmarshalFallsBackToBot(t *testing.T) {
	var v struct {
		Icon Icon `json:"icon"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"icon":"Unknown"}`), &v))
	assert.Equal(t, IconBot, v.Icon)
	assert.Equal(t, "🤖", v.Icon.Glyph().Symbol)
}

func TestIcon_GlyphUnknown(t *testing.T) {
	assert.Equal(t, "Bot", Icon("nope").Glyph().Label)
}
