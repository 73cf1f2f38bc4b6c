package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
	runsvc "github.com/alanyang/agent-marketplace/internal/service/run"
)

// RegisterTools registers all MCP tools on the server.
func RegisterTools(
	s *mcpserver.MCPServer,
	reg *SessionRegistry,
	catalog *catalogsvc.Service,
	runs *runsvc.Service,
) {
	s.AddTool(mcpmcp.NewTool("search_agents",
		mcpmcp.WithDescription("Search the agent catalog. All criteria are optional and combine with AND; every tag given must be present on an agent."),
		mcpmcp.WithString("query", mcpmcp.Description("Case-insensitive text matched against agent name and description")),
		mcpmcp.WithString("category", mcpmcp.Description("Exact category, e.g. Shopping or Writing")),
		mcpmcp.WithArray("tags", mcpmcp.WithStringItems(), mcpmcp.Description("Tags the agent must carry")),
	), searchAgentsHandler(catalog))

	s.AddTool(mcpmcp.NewTool("get_agent",
		mcpmcp.WithDescription("Returns one agent, including its sample prompts."),
		mcpmcp.WithString("agent_id", mcpmcp.Required(), mcpmcp.Description("Agent id")),
	), getAgentHandler(catalog))

	s.AddTool(mcpmcp.NewTool("list_facets",
		mcpmcp.WithDescription("Returns the distinct categories and tags in the catalog."),
	), listFacetsHandler(catalog))

	s.AddTool(mcpmcp.NewTool("run_agent",
		mcpmcp.WithDescription("Run an agent on a prompt and return its result. With async=true the run id is returned at once and the result arrives later as a notifications/message on this session; fetch it with get_run."),
		mcpmcp.WithString("agent_id", mcpmcp.Required(), mcpmcp.Description("Agent id")),
		mcpmcp.WithString("prompt", mcpmcp.Required(), mcpmcp.Description("What the agent should do")),
		mcpmcp.WithBoolean("async", mcpmcp.Description("Return immediately and notify on completion")),
	), runAgentHandler(reg, runs))

	s.AddTool(mcpmcp.NewTool("get_run",
		mcpmcp.WithDescription("Returns a run started earlier. Runs expire after a while."),
		mcpmcp.WithString("run_id", mcpmcp.Required(), mcpmcp.Description("Run UUID")),
	), getRunHandler(runs))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

func searchAgentsHandler(catalog *catalogsvc.Service) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		f := domainagent.FilterState{
			Query: mcpmcp.ParseString(req, "query", ""),
			Tags:  req.GetStringSlice("tags", nil),
		}
		if category := mcpmcp.ParseString(req, "category", ""); category != "" {
			f.Category = &category
		}
		return jsonResult(catalog.List(f))
	}
}

func getAgentHandler(catalog *catalogsvc.Service) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		a, err := catalog.Get(mcpmcp.ParseString(req, "agent_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText("error: agent not found"), nil
		}
		return jsonResult(a)
	}
}

func listFacetsHandler(catalog *catalogsvc.Service) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		return jsonResult(catalog.Facets())
	}
}

func runAgentHandler(reg *SessionRegistry, runs *runsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		agentID := mcpmcp.ParseString(req, "agent_id", "")
		prompt := mcpmcp.ParseString(req, "prompt", "")
		async := mcpmcp.ParseBoolean(req, "async", false)

		if session := mcpserver.ClientSessionFromContext(ctx); session != nil {
			reg.Register(session.SessionID())
			ctx = runsvc.WithCaller(ctx, CallerKey(session.SessionID()))
		}

		run := runs.Run
		if async {
			run = runs.Start
		}
		r, err := run(ctx, agentID, prompt)
		switch {
		case errors.Is(err, runsvc.ErrEmptyPrompt):
			return mcpmcp.NewToolResultText("error: prompt must not be empty"), nil
		case errors.Is(err, runsvc.ErrRunInFlight):
			return mcpmcp.NewToolResultText("error: this agent is already running for this session"), nil
		case err != nil:
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(r)
	}
}

func getRunHandler(runs *runsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id, err := uuid.Parse(mcpmcp.ParseString(req, "run_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText("error: invalid run_id"), nil
		}
		r, err := runs.Get(ctx, id)
		if errors.Is(err, runsvc.ErrRunNotFound) {
			return mcpmcp.NewToolResultText("error: run not found"), nil
		}
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(r)
	}
}

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcpmcp.NewToolResultText(string(data)), nil
}
