package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryParticipantRepository is the single-instance backend. All operations
// run under one mutex, which makes AddIfBelow's check-then-insert atomic.
type MemoryParticipantRepository struct {
	mu      sync.Mutex
	byGame  map[uuid.UUID][]uuid.UUID
	present map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewMemoryParticipantRepository() *MemoryParticipantRepository {
	return &MemoryParticipantRepository{
		byGame:  make(map[uuid.UUID][]uuid.UUID),
		present: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (r *MemoryParticipantRepository) Count(_ context.Context, gameID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byGame[gameID]), nil
}

func (r *MemoryParticipantRepository) Exists(_ context.Context, gameID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.present[gameID][userID]
	return ok, nil
}

func (r *MemoryParticipantRepository) AddIfBelow(_ context.Context, gameID, userID uuid.UUID, capacity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.present[gameID][userID]; ok {
		return false, nil
	}
	if capacity > 0 && len(r.byGame[gameID]) >= capacity {
		return false, nil
	}
	r.insert(gameID, userID)
	return true, nil
}

func (r *MemoryParticipantRepository) Add(_ context.Context, gameID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.present[gameID][userID]; ok {
		return false, nil
	}
	r.insert(gameID, userID)
	return true, nil
}

func (r *MemoryParticipantRepository) Remove(_ context.Context, gameID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.present[gameID][userID]; !ok {
		return false, nil
	}
	delete(r.present[gameID], userID)
	ids := r.byGame[gameID]
	for i, id := range ids {
		if id == userID {
			r.byGame[gameID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *MemoryParticipantRepository) ListUserIDs(_ context.Context, gameID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.byGame[gameID]))
	copy(out, r.byGame[gameID])
	return out, nil
}

// insert assumes r.mu is held and the pair is absent.
func (r *MemoryParticipantRepository) insert(gameID, userID uuid.UUID) {
	if r.present[gameID] == nil {
		r.present[gameID] = make(map[uuid.UUID]struct{})
	}
	r.present[gameID][userID] = struct{}{}
	r.byGame[gameID] = append(r.byGame[gameID], userID)
}

var _ ParticipantRepository = (*MemoryParticipantRepository)(nil)
