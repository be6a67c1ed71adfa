package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMemoryPair() (*MemoryParticipantRepository, *MemoryWaitlistRepository) {
	participants := NewMemoryParticipantRepository()
	return participants, NewMemoryWaitlistRepository(participants)
}

func TestMemoryWaitlist_AddIsUniquePerGame(t *testing.T) {
	_, waitlist := newMemoryPair()
	gameID, userID := uuid.New(), uuid.New()

	added, err := waitlist.Add(context.Background(), gameID, userID)
	require.NoError(t, err)
	require.True(t, added)

	added, err = waitlist.Add(context.Background(), gameID, userID)
	require.NoError(t, err)
	require.False(t, added, "a user appears at most once per waitlist")

	otherGame := uuid.New()
	added, err = waitlist.Add(context.Background(), otherGame, userID)
	require.NoError(t, err)
	require.True(t, added, "waitlists are independent across games")
}

func TestMemoryWaitlist_PositionIsOneBased(t *testing.T) {
	_, waitlist := newMemoryPair()
	gameID := uuid.New()
	first, second := uuid.New(), uuid.New()

	_, err := waitlist.Add(context.Background(), gameID, first)
	require.NoError(t, err)
	_, err = waitlist.Add(context.Background(), gameID, second)
	require.NoError(t, err)

	pos, err := waitlist.Position(context.Background(), gameID, second)
	require.NoError(t, err)
	require.Equal(t, 2, pos)

	pos, err = waitlist.Position(context.Background(), gameID, uuid.New())
	require.NoError(t, err)
	require.Zero(t, pos, "absent users have position 0")
}

func TestMemoryWaitlist_TimestampCollisionBreaksTiesBySeq(t *testing.T) {
	_, waitlist := newMemoryPair()
	fixed := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	waitlist.now = func() time.Time { return fixed }

	gameID := uuid.New()
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{first, second, third} {
		_, err := waitlist.Add(context.Background(), gameID, id)
		require.NoError(t, err)
	}

	promoted, err := waitlist.PromoteEarliest(context.Background(), gameID, 2)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first, second}, promoted,
		"identical timestamps resolve by insertion sequence")
}

func TestMemoryWaitlist_PromoteEarliestMovesEntries(t *testing.T) {
	participants, waitlist := newMemoryPair()
	gameID := uuid.New()
	first, second := uuid.New(), uuid.New()

	_, err := waitlist.Add(context.Background(), gameID, first)
	require.NoError(t, err)
	_, err = waitlist.Add(context.Background(), gameID, second)
	require.NoError(t, err)

	promoted, err := waitlist.PromoteEarliest(context.Background(), gameID, 1)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first}, promoted)

	// Promotion is a move, not a copy: gone from the queue, present as a
	// participant.
	pos, err := waitlist.Position(context.Background(), gameID, first)
	require.NoError(t, err)
	require.Zero(t, pos)
	isParticipant, err := participants.Exists(context.Background(), gameID, first)
	require.NoError(t, err)
	require.True(t, isParticipant)

	waiting, err := waitlist.Count(context.Background(), gameID)
	require.NoError(t, err)
	require.Equal(t, 1, waiting)
}

func TestMemoryWaitlist_PromoteEarliestBounds(t *testing.T) {
	_, waitlist := newMemoryPair()
	gameID := uuid.New()

	promoted, err := waitlist.PromoteEarliest(context.Background(), gameID, 0)
	require.NoError(t, err)
	require.Empty(t, promoted)

	promoted, err = waitlist.PromoteEarliest(context.Background(), gameID, -3)
	require.NoError(t, err)
	require.Empty(t, promoted)

	_, err = waitlist.Add(context.Background(), gameID, uuid.New())
	require.NoError(t, err)
	promoted, err = waitlist.PromoteEarliest(context.Background(), gameID, 10)
	require.NoError(t, err)
	require.Len(t, promoted, 1, "claims are capped by queue length")
}

func TestMemoryWaitlist_ConcurrentClaimsAreDisjoint(t *testing.T) {
	participants, waitlist := newMemoryPair()
	gameID := uuid.New()

	const queued = 16
	for i := 0; i < queued; i++ {
		_, err := waitlist.Add(context.Background(), gameID, uuid.New())
		require.NoError(t, err)
	}

	const claimers = 8
	var wg sync.WaitGroup
	results := make([][]uuid.UUID, claimers)
	errs := make([]error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = waitlist.PromoteEarliest(context.Background(), gameID, 2)
		}(i)
	}
	wg.Wait()

	seen := map[uuid.UUID]struct{}{}
	total := 0
	for i := 0; i < claimers; i++ {
		require.NoError(t, errs[i])
		for _, id := range results[i] {
			_, dup := seen[id]
			require.False(t, dup, "no entry is claimed twice")
			seen[id] = struct{}{}
			total++
		}
	}
	require.Equal(t, queued, total, "no claim is lost")

	count, err := participants.Count(context.Background(), gameID)
	require.NoError(t, err)
	require.Equal(t, queued, count)
	waiting, err := waitlist.Count(context.Background(), gameID)
	require.NoError(t, err)
	require.Zero(t, waiting)
}

func TestMemoryWaitlist_PromoteFreedRecountsOccupancy(t *testing.T) {
	participants, waitlist := newMemoryPair()
	gameID := uuid.New()
	occupant, queued := uuid.New(), uuid.New()

	added, err := participants.Add(context.Background(), gameID, occupant)
	require.NoError(t, err)
	require.True(t, added)
	_, err = waitlist.Add(context.Background(), gameID, queued)
	require.NoError(t, err)

	// The slot the caller thought was free has been taken; the claim
	// shrinks to nothing instead of overshooting.
	promoted, err := waitlist.PromoteFreed(context.Background(), gameID, 1)
	require.NoError(t, err)
	require.Empty(t, promoted)

	pos, err := waitlist.Position(context.Background(), gameID, queued)
	require.NoError(t, err)
	require.Equal(t, 1, pos)

	promoted, err = waitlist.PromoteFreed(context.Background(), gameID, 3)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{queued}, promoted)

	count, err := participants.Count(context.Background(), gameID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	promoted, err = waitlist.PromoteFreed(context.Background(), gameID, 0)
	require.NoError(t, err)
	require.Empty(t, promoted)
}

func TestMemoryWaitlist_RemoveIsVoluntaryWithdrawal(t *testing.T) {
	_, waitlist := newMemoryPair()
	gameID := uuid.New()
	first, second := uuid.New(), uuid.New()

	_, err := waitlist.Add(context.Background(), gameID, first)
	require.NoError(t, err)
	_, err = waitlist.Add(context.Background(), gameID, second)
	require.NoError(t, err)

	removed, err := waitlist.Remove(context.Background(), gameID, first)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = waitlist.Remove(context.Background(), gameID, first)
	require.NoError(t, err)
	require.False(t, removed)

	pos, err := waitlist.Position(context.Background(), gameID, second)
	require.NoError(t, err)
	require.Equal(t, 1, pos)
}
