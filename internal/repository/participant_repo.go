package repository

import (
	"context"

	"github.com/google/uuid"
)

// ParticipantRepository is the durable record of confirmed memberships.
// Capacity is enforced against its cardinality; only the RSVP and promotion
// services write to it.
type ParticipantRepository interface {
	Count(ctx context.Context, gameID uuid.UUID) (int, error)
	Exists(ctx context.Context, gameID, userID uuid.UUID) (bool, error)

	// AddIfBelow inserts the membership only while the participant count is
	// below capacity (capacity <= 0 means unlimited). The count check and the
	// insert are a single atomic unit: two racing calls for the last slot
	// admit exactly one caller. Returns false without error when the game is
	// full or the user is already a participant.
	AddIfBelow(ctx context.Context, gameID, userID uuid.UUID, capacity int) (bool, error)

	// Add inserts unconditionally (used by promotion, which trusts the freed
	// slot count and never re-validates capacity). No-op if already present.
	Add(ctx context.Context, gameID, userID uuid.UUID) (bool, error)

	Remove(ctx context.Context, gameID, userID uuid.UUID) (bool, error)
	ListUserIDs(ctx context.Context, gameID uuid.UUID) ([]uuid.UUID, error)
}
