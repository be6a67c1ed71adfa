package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state, here the RSVP
// idempotency-key cache. Implementations: Redis (production, shared across
// replicas) or in-memory (local dev / single instance).
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores the value only if the key is absent; returns whether the
	// write happened. Used so only the first outcome for an idempotency key
	// wins.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Get returns (nil, nil) for a missing or expired key.
	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error
}
