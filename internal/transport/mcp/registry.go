package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	domainrun "github.com/alanyang/agent-marketplace/internal/domain/run"
)

const callerPrefix = "mcp:"

// CallerKey is the run-service caller key for an MCP session.
func CallerKey(sessionID string) string { return callerPrefix + sessionID }

// SessionRegistry is the in-memory set of MCP sessions that have started
// runs. It implements port/notifier.RunNotifier.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]struct{}

	// mcpSrv is set after the MCP server is constructed.
	mcpMu  sync.RWMutex
	mcpSrv *mcpserver.MCPServer
}

// NewSessionRegistry creates a registry without an MCP server reference.
// Call SetMCPServer once the mcp-go server is constructed.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]struct{})}
}

func (r *SessionRegistry) SetMCPServer(s *mcpserver.MCPServer) {
	r.mcpMu.Lock()
	r.mcpSrv = s
	r.mcpMu.Unlock()
}

// Register marks a session as interested in run notifications.
func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	r.sessions[sessionID] = struct{}{}
	r.mu.Unlock()
}

// Unregister forgets a session. It reports whether the session was known.
func (r *SessionRegistry) Unregister(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

func (r *SessionRegistry) IsConnected(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[sessionID]
	return ok
}

// runNotification is the payload of a notifications/message push.
type runNotification struct {
	Type string        `json:"type"`
	Run  domainrun.Run `json:"run"`
}

// NotifyRun implements port/notifier.RunNotifier. Callers that are not MCP
// sessions, or sessions that have gone away, are ignored.
func (r *SessionRegistry) NotifyRun(_ context.Context, callerKey string, run domainrun.Run) error {
	sessionID, ok := strings.CutPrefix(callerKey, callerPrefix)
	if !ok || !r.IsConnected(sessionID) {
		return nil
	}

	r.mcpMu.RLock()
	srv := r.mcpSrv
	r.mcpMu.RUnlock()

	if srv == nil {
		return fmt.Errorf("mcp server not initialized")
	}

	params, err := toParams(runNotification{Type: "run_completed", Run: run})
	if err != nil {
		return fmt.Errorf("serialize notification: %w", err)
	}
	return srv.SendNotificationToSpecificClient(sessionID, "notifications/message", params)
}

func toParams(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return map[string]any{"data": v}, nil
	}
	return params, nil
}
