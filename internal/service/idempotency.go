package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pickupsports/gamehub/internal/repository"
)

// RSVPOutcome is a cached join/leave result, replayed verbatim when a client
// retries with the same Idempotency-Key.
type RSVPOutcome struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyStore caches the first outcome per (operation, user, game, key).
// SetNX keeps retried writes from clobbering the original outcome.
type IdempotencyStore struct {
	store repository.StateStore
	ttl   time.Duration
}

func NewIdempotencyStore(store repository.StateStore, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{store: store, ttl: ttl}
}

func (s *IdempotencyStore) Get(ctx context.Context, op string, userID, gameID uuid.UUID, key string) (*RSVPOutcome, error) {
	raw, err := s.store.Get(ctx, s.key(op, userID, gameID, key))
	if err != nil {
		return nil, fmt.Errorf("idempotency get: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var outcome RSVPOutcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &outcome, nil
}

func (s *IdempotencyStore) Put(ctx context.Context, op string, userID, gameID uuid.UUID, key string, outcome RSVPOutcome) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if _, err := s.store.SetNX(ctx, s.key(op, userID, gameID, key), raw, s.ttl); err != nil {
		return fmt.Errorf("idempotency put: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(op string, userID, gameID uuid.UUID, key string) string {
	return fmt.Sprintf("gamehub:rsvp:%s:%s:%s:%s", op, userID, gameID, key)
}
