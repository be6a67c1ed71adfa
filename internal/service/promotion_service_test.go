package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pickupsports/gamehub/internal/model"
	"pickupsports/gamehub/internal/repository"
)

type promotionFixture struct {
	games        *fakeGameRepo
	participants *repository.MemoryParticipantRepository
	waitlist     *repository.MemoryWaitlistRepository
	dispatcher   *captureDispatcher
	promotions   PromotionService
	gameID       uuid.UUID
}

func newPromotionFixture(t *testing.T) *promotionFixture {
	t.Helper()
	games := newFakeGameRepo()
	participants := repository.NewMemoryParticipantRepository()
	waitlist := repository.NewMemoryWaitlistRepository(participants)
	dispatcher := &captureDispatcher{}

	game := &model.Game{Capacity: intPtr(10), WaitlistEnabled: true, Sport: "basketball", Location: "gym A"}
	require.NoError(t, games.Create(context.Background(), game))

	return &promotionFixture{
		games:        games,
		participants: participants,
		waitlist:     waitlist,
		dispatcher:   dispatcher,
		promotions:   NewPromotionService(games, waitlist, dispatcher),
		gameID:       game.ID,
	}
}

func (f *promotionFixture) enqueue(t *testing.T, userIDs ...uuid.UUID) {
	t.Helper()
	for _, id := range userIDs {
		added, err := f.waitlist.Add(context.Background(), f.gameID, id)
		require.NoError(t, err)
		require.True(t, added)
	}
}

func TestPromoteUpTo_FIFOFairness(t *testing.T) {
	f := newPromotionFixture(t)
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	f.enqueue(t, first, second, third)

	promoted, err := f.promotions.PromoteUpTo(context.Background(), f.gameID, 2)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first, second}, promoted, "earliest joiners promote first")

	pos, err := f.waitlist.Position(context.Background(), f.gameID, third)
	require.NoError(t, err)
	require.Equal(t, 1, pos, "the latest joiner stays queued")
}

func TestPromoteUpTo_UnderPromotionIsSafe(t *testing.T) {
	f := newPromotionFixture(t)
	first, second := uuid.New(), uuid.New()
	f.enqueue(t, first, second)

	promoted, err := f.promotions.PromoteUpTo(context.Background(), f.gameID, 5)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first, second}, promoted)

	waiting, err := f.waitlist.Count(context.Background(), f.gameID)
	require.NoError(t, err)
	require.Zero(t, waiting)
}

func TestPromoteUpTo_NonPositiveIsNoOp(t *testing.T) {
	f := newPromotionFixture(t)
	f.enqueue(t, uuid.New())

	for _, n := range []int{0, -1, -100} {
		promoted, err := f.promotions.PromoteUpTo(context.Background(), f.gameID, n)
		require.NoError(t, err)
		require.Empty(t, promoted)
	}

	waiting, err := f.waitlist.Count(context.Background(), f.gameID)
	require.NoError(t, err)
	require.Equal(t, 1, waiting)
	require.Empty(t, f.dispatcher.Events())
}

func TestPromoteUpTo_EmptyWaitlist(t *testing.T) {
	f := newPromotionFixture(t)

	promoted, err := f.promotions.PromoteUpTo(context.Background(), f.gameID, 3)
	require.NoError(t, err)
	require.Empty(t, promoted)
	require.Empty(t, f.dispatcher.Events())
}

func TestPromoteUpTo_ConcurrentCallsNeverDoublePromote(t *testing.T) {
	f := newPromotionFixture(t)
	first, second := uuid.New(), uuid.New()
	f.enqueue(t, first, second)

	var wg sync.WaitGroup
	results := make([][]uuid.UUID, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.promotions.PromoteUpTo(context.Background(), f.gameID, 1)
		}(i)
	}
	wg.Wait()

	promoted := map[uuid.UUID]int{}
	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1, "each claim gets exactly one user")
		promoted[results[i][0]]++
	}
	require.Len(t, promoted, 2, "the two calls promote two distinct users")
	require.Equal(t, 1, promoted[first])
	require.Equal(t, 1, promoted[second])

	waiting, err := f.waitlist.Count(context.Background(), f.gameID)
	require.NoError(t, err)
	require.Zero(t, waiting)
}

func TestPromoteFreed_ClaimsOnlyOpenSlotsAndNotifiesThem(t *testing.T) {
	f := newPromotionFixture(t)
	occupant := uuid.New()
	added, err := f.participants.Add(context.Background(), f.gameID, occupant)
	require.NoError(t, err)
	require.True(t, added)

	first, second := uuid.New(), uuid.New()
	f.enqueue(t, first, second)

	// One of the two slots is occupied, so only the earliest waiter fits.
	promoted, err := f.promotions.PromoteFreed(context.Background(), f.gameID, 2)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{first}, promoted)

	events := f.dispatcher.Events()
	require.Len(t, events, 1)
	require.Equal(t, first, events[0].UserID)

	pos, err := f.waitlist.Position(context.Background(), f.gameID, second)
	require.NoError(t, err)
	require.Equal(t, 1, pos)

	promoted, err = f.promotions.PromoteFreed(context.Background(), f.gameID, 0)
	require.NoError(t, err)
	require.Empty(t, promoted)
}

func TestPromoteUpTo_OneEventPerPromotedUser(t *testing.T) {
	f := newPromotionFixture(t)
	first, second := uuid.New(), uuid.New()
	f.enqueue(t, first, second)

	_, err := f.promotions.PromoteUpTo(context.Background(), f.gameID, 2)
	require.NoError(t, err)

	events := f.dispatcher.Events()
	require.Len(t, events, 2)
	require.Equal(t, first, events[0].UserID)
	require.Equal(t, second, events[1].UserID)
	for _, ev := range events {
		require.Equal(t, f.gameID, ev.GameID)
		require.Equal(t, "basketball", ev.Sport)
		require.Equal(t, "gym A", ev.Location)
	}
}

// Every notification channel failing must not disturb the promotion outcome.
func TestPromoteUpTo_NotificationFailureDoesNotAffectResult(t *testing.T) {
	games := newFakeGameRepo()
	users := newFakeUserRepo()
	participants := repository.NewMemoryParticipantRepository()
	waitlist := repository.NewMemoryWaitlistRepository(participants)

	game := &model.Game{Capacity: intPtr(5), WaitlistEnabled: true}
	require.NoError(t, games.Create(context.Background(), game))

	dispatcher := NewNotificationDispatcher(users, failingNotificationRepo{}, failingPushQueue{}, nil, zap.NewNop())
	promotions := NewPromotionService(games, waitlist, dispatcher)

	queued := uuid.New()
	added, err := waitlist.Add(context.Background(), game.ID, queued)
	require.NoError(t, err)
	require.True(t, added)

	promoted, err := promotions.PromoteUpTo(context.Background(), game.ID, 1)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{queued}, promoted)

	isParticipant, err := participants.Exists(context.Background(), game.ID, queued)
	require.NoError(t, err)
	require.True(t, isParticipant, "the state change is durable regardless of notification failures")
}
