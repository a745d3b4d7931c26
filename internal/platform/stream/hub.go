// Package stream broadcasts game snapshots to websocket spectators.
// It is a read-only transport: clients receive JSON snapshots and cannot
// send commands.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// sendBuffer is the number of frames queued per spectator before frames
// are dropped for that spectator.
const sendBuffer = 16

// Hub fans out snapshots to subscribed spectators.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	seq     uint64
	dropped uint64
	logger  *log.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// Publish encodes v as JSON and queues it for every spectator.
// Slow spectators miss frames rather than stalling the publisher.
func (h *Hub) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stream: encode snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	h.seq++
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
		}
	}
	return nil
}

// subscribe registers conn and queues the latest snapshot for it.
func (h *Hub) subscribe(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("spectator joined", "remote", conn.RemoteAddr().String(), "spectators", n)
	return c
}

// unsubscribe removes c and closes its queue. Safe to call twice.
func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("spectator left", "remote", c.conn.RemoteAddr().String(), "spectators", n)
	}
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Latest returns the most recent encoded snapshot, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Stats returns published and dropped frame counts.
func (h *Hub) Stats() (published, dropped uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq, h.dropped
}

// Close disconnects every spectator. Each writer sends a normal closure
// frame once its queue is drained.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unsubscribe(c)
	}
}
