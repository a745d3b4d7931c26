package stream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Handler upgrades HTTP requests to spectator websockets.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a handler attached to hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := h.hub.subscribe(conn)
	go h.writeLoop(c)

	// Spectators are read-only; reading only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.unsubscribe(c)
			conn.Close()
			return
		}
	}
}

// writeLoop drains the client's queue until it is closed. It is the only
// goroutine writing to the connection.
func (h *Handler) writeLoop(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.hub.unsubscribe(c)
			c.conn.Close()
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream closed"))
	c.conn.Close()
}
