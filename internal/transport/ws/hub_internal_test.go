package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-marketplace/internal/domain/event"
)

func TestHub_StalledClientIsDropped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	hub.writeWait = 20 * time.Millisecond

	r := gin.New()
	hub.Register(r.Group("/api/ws"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// The client never reads, so the socket buffers fill and writes block.
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	e := event.New(event.TypeCatalogLoaded, strings.Repeat("x", 64*1024))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000 && hub.Clients() > 0; i++ {
			hub.Broadcast(e)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
	assert.Equal(t, 0, hub.Clients())
}
