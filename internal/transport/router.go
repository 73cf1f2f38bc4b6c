package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/agent-marketplace/internal/domain/event"
	porteventbus "github.com/alanyang/agent-marketplace/internal/port/eventbus"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
	runsvc "github.com/alanyang/agent-marketplace/internal/service/run"

	agenthandler "github.com/alanyang/agent-marketplace/internal/transport/agent"
	cataloghandler "github.com/alanyang/agent-marketplace/internal/transport/catalog"
	runhandler "github.com/alanyang/agent-marketplace/internal/transport/run"
	"github.com/alanyang/agent-marketplace/internal/transport/web"
	wshandler "github.com/alanyang/agent-marketplace/internal/transport/ws"
)

// NewRouter builds the gin engine: HTML pages at the root, the JSON API and
// websocket feed under /api, and the MCP endpoint at /mcp. The event bus
// subscriptions feeding the websocket hub live until ctx is done.
func NewRouter(
	ctx context.Context,
	mode string,
	catalog *catalogsvc.Service,
	runs *runsvc.Service,
	eventBus porteventbus.EventBus,
	mcpHandler http.Handler,
) (*gin.Engine, error) {
	gin.SetMode(mode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	if err := web.Register(r, catalog, runs); err != nil {
		return nil, err
	}

	api := r.Group("/api")

	agenthandler.Register(api.Group("/agents"), catalog, runs)
	runhandler.Register(api.Group("/runs"), runs)
	cataloghandler.Register(api.Group("/catalog"), catalog)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	// One subscription per channel; clients filter by channel or event.Type.
	for _, ch := range []event.Channel{event.ChannelRun, event.ChannelCatalog} {
		if _, err := eventBus.Subscribe(ctx, ch, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", ch, "error", err)
		}
	}

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	return r, nil
}
