package storage

import (
	"context"

	"github.com/chris/transit-tickets/pkg/models"
)

// QRRegistry resolves scanned codes to transport types. The engine only reads it.
type QRRegistry interface {
	// LookupCode returns the transport type registered for code. The boolean is
	// false when the code is not registered.
	LookupCode(ctx context.Context, code string) (models.TransportType, bool, error)
}

// QRRegistryAdmin is used by operator tooling to register codes.
type QRRegistryAdmin interface {
	QRRegistry
	PutCode(ctx context.Context, entry models.QRRegistryEntry) error
}
