package mcp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
	mcptransport "github.com/alanyang/agent-marketplace/internal/transport/mcp"
)

func TestRegistry_RegisterUnregister(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	reg.Register("session-1")
	assert.True(t, reg.IsConnected("session-1"))

	assert.True(t, reg.Unregister("session-1"))
	assert.False(t, reg.IsConnected("session-1"))
	assert.False(t, reg.Unregister("session-1"), "second unregister reports unknown session")
}

func TestNotifyRun_NoOp(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()
	reg.Register("session-1")
	r := domainrun.New("1", "hi")

	tests := []struct {
		name      string
		callerKey string
	}{
		{name: "not an mcp caller", callerKey: "http:10.0.0.1"},
		{name: "unknown session", callerKey: mcptransport.CallerKey("session-2")},
		{name: "anonymous", callerKey: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, reg.NotifyRun(context.Background(), tt.callerKey, r))
		})
	}
}

func TestNotifyRun_ServerNotInitialized(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()
	reg.Register("session-1")

	err := reg.NotifyRun(context.Background(), mcptransport.CallerKey("session-1"), domainrun.New("1", "hi"))
	assert.Error(t, err)
}

func TestCallerKey(t *testing.T) {
	assert.Equal(t, "mcp:abc", mcptransport.CallerKey("abc"))
}
