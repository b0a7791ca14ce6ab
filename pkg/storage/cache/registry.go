// Package cache puts a Redis read-through cache in front of the QR registry.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/transit-tickets/pkg/models"
	"github.com/chris/transit-tickets/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "qr:"

// Registry caches registered codes only, so a newly registered code is seen
// on the next scan. Redis failures fall through to the backing registry.
type Registry struct {
	next   storage.QRRegistry
	client *redis.Client
	ttl    time.Duration
}

// Make sure we conform to the interface
var _ storage.QRRegistry = (*Registry)(nil)

func NewRegistry(next storage.QRRegistry, client *redis.Client, ttl time.Duration) *Registry {
	return &Registry{next: next, client: client, ttl: ttl}
}

func (r *Registry) LookupCode(ctx context.Context, code string) (models.TransportType, bool, error) {
	key := keyPrefix + code

	val, err := r.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return models.TransportType(val), true, nil
	case !errors.Is(err, redis.Nil):
		slog.Warn("qr registry cache read failed", "error", err)
	}

	transport, ok, err := r.next.LookupCode(ctx, code)
	if err != nil || !ok {
		return transport, ok, err
	}

	if err := r.client.Set(ctx, key, string(transport), r.ttl).Err(); err != nil {
		slog.Warn("qr registry cache write failed", "error", err)
	}
	return transport, true, nil
}

// Invalidate drops a cached code, for use after the registry entry changes.
func (r *Registry) Invalidate(ctx context.Context, code string) error {
	return Invalidate(ctx, r.client, code)
}

// Invalidate drops a cached code through a bare client, for writers that do
// not read through the cache.
func Invalidate(ctx context.Context, client *redis.Client, code string) error {
	if err := client.Del(ctx, keyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached code %s: %w", code, err)
	}
	return nil
}
