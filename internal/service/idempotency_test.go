package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pickupsports/gamehub/internal/repository"
)

func TestIdempotencyStore_ReplaysFirstOutcome(t *testing.T) {
	store := NewIdempotencyStore(repository.NewMemoryStateStore(), time.Minute)
	userID, gameID := uuid.New(), uuid.New()

	cached, err := store.Get(context.Background(), "join", userID, gameID, "k1")
	require.NoError(t, err)
	require.Nil(t, cached, "unknown keys miss")

	first := RSVPOutcome{Status: 200, Body: json.RawMessage(`{"joined":true}`)}
	require.NoError(t, store.Put(context.Background(), "join", userID, gameID, "k1", first))

	// A retried request may race the original and try to store a different
	// outcome; the first write wins.
	second := RSVPOutcome{Status: 409, Body: json.RawMessage(`{"joined":false}`)}
	require.NoError(t, store.Put(context.Background(), "join", userID, gameID, "k1", second))

	cached, err = store.Get(context.Background(), "join", userID, gameID, "k1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, first.Status, cached.Status)
	require.JSONEq(t, string(first.Body), string(cached.Body))
}

func TestIdempotencyStore_KeysAreScoped(t *testing.T) {
	store := NewIdempotencyStore(repository.NewMemoryStateStore(), time.Minute)
	userID, gameID := uuid.New(), uuid.New()

	outcome := RSVPOutcome{Status: 200, Body: json.RawMessage(`{}`)}
	require.NoError(t, store.Put(context.Background(), "join", userID, gameID, "k1", outcome))

	for name, args := range map[string][4]string{
		"different operation": {"leave", userID.String(), gameID.String(), "k1"},
		"different user":      {"join", uuid.NewString(), gameID.String(), "k1"},
		"different game":      {"join", userID.String(), uuid.NewString(), "k1"},
		"different key":       {"join", userID.String(), gameID.String(), "k2"},
	} {
		cached, err := store.Get(context.Background(), args[0], uuid.MustParse(args[1]), uuid.MustParse(args[2]), args[3])
		require.NoError(t, err)
		require.Nil(t, cached, name)
	}
}
