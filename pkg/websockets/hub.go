package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub is the in-process Publisher used by the local server. It writes directly
// to the gorilla connections attached to it.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*client
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*client)}
}

// Attach registers an upgraded connection under id.
func (h *Hub) Attach(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = &client{conn: conn}
}

// Detach forgets the connection registered under id. It does not close it.
func (h *Hub) Detach(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// Len returns the number of attached connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Publish writes the message to every attached connection. A connection whose
// write fails is closed and detached.
func (h *Hub) Publish(ctx context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.Lock()
	targets := make(map[string]*client, len(h.conns))
	for id, c := range h.conns {
		targets[id] = c
	}
	h.mu.Unlock()

	for id, c := range targets {
		if err := c.write(payload); err != nil {
			slog.Info("dropping local connection after failed write", "connectionId", id, "error", err)
			h.Detach(id)
			c.conn.Close()
		}
	}
	return nil
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
