package repository

import (
	"context"

	"github.com/google/uuid"
)

// WaitlistRepository is the durable FIFO queue of users waiting for a slot.
// Queue order is (joined_at, seq); a user appears at most once per game.
type WaitlistRepository interface {
	// Add enqueues the user. Returns false without error if already queued.
	Add(ctx context.Context, gameID, userID uuid.UUID) (bool, error)

	// Remove is voluntary withdrawal. It never triggers promotion.
	Remove(ctx context.Context, gameID, userID uuid.UUID) (bool, error)

	Count(ctx context.Context, gameID uuid.UUID) (int, error)

	// Position returns the user's 1-based queue position, 0 if not queued.
	Position(ctx context.Context, gameID, userID uuid.UUID) (int, error)

	// PromoteEarliest atomically claims up to n entries in queue order,
	// deletes them, and inserts the matching participant rows, all as one
	// unit against the backing store. Concurrent calls for the same game
	// never claim the same entry. Returns the promoted user IDs in their
	// original queue order; n <= 0 returns an empty result.
	PromoteEarliest(ctx context.Context, gameID uuid.UUID, n int) ([]uuid.UUID, error)

	// PromoteFreed claims an entry for every slot open under the capacity
	// bound. The occupancy recount and the claim are one atomic unit under
	// the same lock the direct-join path takes, so a join that grabs a
	// freed slot first shrinks the claim rather than racing it.
	// capacity <= 0 claims nothing.
	PromoteFreed(ctx context.Context, gameID uuid.UUID, capacity int) ([]uuid.UUID, error)
}
