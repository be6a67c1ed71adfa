package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memWaitlistEntry struct {
	userID   uuid.UUID
	joinedAt time.Time
	seq      int64
}

// MemoryWaitlistRepository is the single-instance backend. It shares the
// participant repository so PromoteEarliest can move entries across both
// stores; the claim itself is exclusive under r.mu.
type MemoryWaitlistRepository struct {
	mu           sync.Mutex
	byGame       map[uuid.UUID][]memWaitlistEntry
	nextSeq      int64
	participants *MemoryParticipantRepository

	now func() time.Time
}

func NewMemoryWaitlistRepository(participants *MemoryParticipantRepository) *MemoryWaitlistRepository {
	return &MemoryWaitlistRepository{
		byGame:       make(map[uuid.UUID][]memWaitlistEntry),
		participants: participants,
		now:          time.Now,
	}
}

func (r *MemoryWaitlistRepository) Add(_ context.Context, gameID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.byGame[gameID] {
		if e.userID == userID {
			return false, nil
		}
	}
	r.nextSeq++
	r.byGame[gameID] = append(r.byGame[gameID], memWaitlistEntry{
		userID:   userID,
		joinedAt: r.now(),
		seq:      r.nextSeq,
	})
	r.sortGame(gameID)
	return true, nil
}

func (r *MemoryWaitlistRepository) Remove(_ context.Context, gameID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.byGame[gameID]
	for i, e := range entries {
		if e.userID == userID {
			r.byGame[gameID] = append(entries[:i], entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryWaitlistRepository) Count(_ context.Context, gameID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byGame[gameID]), nil
}

func (r *MemoryWaitlistRepository) Position(_ context.Context, gameID, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.byGame[gameID] {
		if e.userID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryWaitlistRepository) PromoteEarliest(ctx context.Context, gameID uuid.UUID, n int) ([]uuid.UUID, error) {
	if n <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	entries := r.byGame[gameID]
	if n > len(entries) {
		n = len(entries)
	}
	claimed := make([]uuid.UUID, 0, n)
	for _, e := range entries[:n] {
		claimed = append(claimed, e.userID)
	}
	r.byGame[gameID] = entries[n:]
	r.mu.Unlock()

	for _, uid := range claimed {
		if _, err := r.participants.Add(ctx, gameID, uid); err != nil {
			return nil, err
		}
	}
	return claimed, nil
}

// PromoteFreed holds both store mutexes for the recount and the claim, so
// it cannot interleave with AddIfBelow's check-then-insert. Lock order is
// always r.mu before r.participants.mu.
func (r *MemoryWaitlistRepository) PromoteFreed(_ context.Context, gameID uuid.UUID, capacity int) ([]uuid.UUID, error) {
	if capacity <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants.mu.Lock()
	defer r.participants.mu.Unlock()

	slots := capacity - len(r.participants.byGame[gameID])
	if slots <= 0 {
		return nil, nil
	}
	entries := r.byGame[gameID]
	if slots > len(entries) {
		slots = len(entries)
	}

	claimed := make([]uuid.UUID, 0, slots)
	for _, e := range entries[:slots] {
		claimed = append(claimed, e.userID)
	}
	r.byGame[gameID] = entries[slots:]
	for _, uid := range claimed {
		if _, ok := r.participants.present[gameID][uid]; !ok {
			r.participants.insert(gameID, uid)
		}
	}
	return claimed, nil
}

// sortGame assumes r.mu is held. Entries are kept in (joinedAt, seq) order so
// claims and position lookups read the head directly.
func (r *MemoryWaitlistRepository) sortGame(gameID uuid.UUID) {
	entries := r.byGame[gameID]
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].joinedAt.Equal(entries[j].joinedAt) {
			return entries[i].seq < entries[j].seq
		}
		return entries[i].joinedAt.Before(entries[j].joinedAt)
	})
}

var _ WaitlistRepository = (*MemoryWaitlistRepository)(nil)
