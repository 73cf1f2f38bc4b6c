package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
)

// RegisterPrompts registers one prompt per loaded agent, named after its id.
// Agents added by a later reload get no prompt until the server restarts.
func RegisterPrompts(s *mcpserver.MCPServer, catalog *catalogsvc.Service) {
	for _, a := range catalog.All() {
		s.AddPrompt(
			mcpmcp.NewPrompt(PromptName(a.ID),
				mcpmcp.WithPromptDescription(fmt.Sprintf("Ask the %s agent. %s", a.Name, a.Description)),
				mcpmcp.WithArgument("request",
					mcpmcp.ArgumentDescription("Your request. Leave empty to get the agent's sample prompts."),
				),
			),
			promptHandler(a.ID, catalog),
		)
	}
}

func PromptName(agentID string) string { return "agent_" + agentID }

func promptHandler(agentID string, catalog *catalogsvc.Service) mcpserver.PromptHandlerFunc {
	return func(_ context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		a, err := catalog.Get(agentID)
		if err != nil {
			return nil, fmt.Errorf("get prompt for agent %s: %w", agentID, err)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Use the run_agent tool with agent_id %q.\n", a.ID)
		if request := strings.TrimSpace(req.Params.Arguments["request"]); request != "" {
			fmt.Fprintf(&b, "Request: %s\n", request)
		} else if len(a.SamplePrompts) > 0 {
			b.WriteString("Pick one of these sample prompts:\n")
			for _, p := range a.SamplePrompts {
				fmt.Fprintf(&b, "- %s\n", p)
			}
		}

		return mcpmcp.NewGetPromptResult(
			a.Name,
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{Type: "text", Text: b.String()},
				),
			},
		), nil
	}
}
