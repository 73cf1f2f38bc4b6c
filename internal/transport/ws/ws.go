package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alanyang/agent-marketplace/internal/domain/event"
)

// writeWait bounds each write so a stalled client cannot hold up the feed.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one browser connection. An empty channel receives every event.
type client struct {
	channel event.Channel
}

// Hub fans run and catalog events out to websocket clients. Clients may pass
// ?channel=run or ?channel=catalog to narrow the feed.
type Hub struct {
	clients   map[*websocket.Conn]client
	mu        sync.Mutex
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]client),
		writeWait: writeWait,
	}
}

func (h *Hub) Register(rg *gin.RouterGroup) {
	rg.GET("", h.handleWS)
}

func (h *Hub) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = client{channel: event.Channel(c.Query("channel"))}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes e to every interested client. Writes are serialised under
// the hub lock since a websocket connection allows one writer at a time. A
// client whose write fails or times out is dropped.
func (h *Hub) Broadcast(e event.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("websocket broadcast marshal failed", "error", err)
		return
	}
	ch := event.ChannelFor(e.Type)

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, cl := range h.clients {
		if cl.channel != "" && cl.channel != ch {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("websocket write failed, dropping client", "remote", conn.RemoteAddr().String(), "error", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
