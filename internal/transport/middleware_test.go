package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoisy(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/ws", true},
		{"/api/agents", true},
		{"/api/runs/0b6c2c9e-1f1a-4a8e-9d35-5d0c5f0a2b11", true},
		{"/mcp", true},
		{"/api/agents/1", false},
		{"/catalog", false},
		{"/", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isNoisy(tt.path))
		})
	}
}
