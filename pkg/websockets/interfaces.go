package websockets

import (
	"context"
)

// ConnectionManager records which WebSocket connections are open.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// ConnectionStore is a ConnectionManager that can also enumerate connections.
type ConnectionStore interface {
	ConnectionManager
	GetAllConnections(ctx context.Context) ([]string, error)
}

// Publisher defines the interface for publishing messages to WebSocket clients.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// NoOpPublisher drops every message. Used when live updates are not configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, message Message) error {
	return nil
}
