package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryParticipants_AddIfBelowRespectsCapacity(t *testing.T) {
	repo := NewMemoryParticipantRepository()
	gameID := uuid.New()

	added, err := repo.AddIfBelow(context.Background(), gameID, uuid.New(), 2)
	require.NoError(t, err)
	require.True(t, added)
	added, err = repo.AddIfBelow(context.Background(), gameID, uuid.New(), 2)
	require.NoError(t, err)
	require.True(t, added)

	added, err = repo.AddIfBelow(context.Background(), gameID, uuid.New(), 2)
	require.NoError(t, err)
	require.False(t, added, "a full game admits nobody")

	count, err := repo.Count(context.Background(), gameID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestMemoryParticipants_AddIfBelowDuplicateIsNoOp(t *testing.T) {
	repo := NewMemoryParticipantRepository()
	gameID, userID := uuid.New(), uuid.New()

	added, err := repo.AddIfBelow(context.Background(), gameID, userID, 5)
	require.NoError(t, err)
	require.True(t, added)

	added, err = repo.AddIfBelow(context.Background(), gameID, userID, 5)
	require.NoError(t, err)
	require.False(t, added)

	count, err := repo.Count(context.Background(), gameID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMemoryParticipants_ZeroCapacityMeansUnlimited(t *testing.T) {
	repo := NewMemoryParticipantRepository()
	gameID := uuid.New()

	for i := 0; i < 50; i++ {
		added, err := repo.AddIfBelow(context.Background(), gameID, uuid.New(), 0)
		require.NoError(t, err)
		require.True(t, added)
	}
}

func TestMemoryParticipants_AddIfBelowRaceAdmitsExactlyCapacity(t *testing.T) {
	repo := NewMemoryParticipantRepository()
	gameID := uuid.New()

	const racers = 10
	var wg sync.WaitGroup
	wins := make([]bool, racers)
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wins[i], errs[i] = repo.AddIfBelow(context.Background(), gameID, uuid.New(), 1)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for i := 0; i < racers; i++ {
		require.NoError(t, errs[i])
		if wins[i] {
			admitted++
		}
	}
	require.Equal(t, 1, admitted)
}

func TestMemoryParticipants_RemoveAndListPreserveOrder(t *testing.T) {
	repo := NewMemoryParticipantRepository()
	gameID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b, c} {
		_, err := repo.Add(context.Background(), gameID, id)
		require.NoError(t, err)
	}

	removed, err := repo.Remove(context.Background(), gameID, b)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.Remove(context.Background(), gameID, b)
	require.NoError(t, err)
	require.False(t, removed)

	ids, err := repo.ListUserIDs(context.Background(), gameID)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{a, c}, ids)

	exists, err := repo.Exists(context.Background(), gameID, b)
	require.NoError(t, err)
	require.False(t, exists)
}
