package repository

import (
	"context"
	"sync"
)

// MemoryPushQueue buffers payloads in memory. Used for local dev and as a
// capture point in tests.
type MemoryPushQueue struct {
	mu       sync.Mutex
	payloads [][]byte
}

func NewMemoryPushQueue() *MemoryPushQueue {
	return &MemoryPushQueue{}
}

func (q *MemoryPushQueue) Enqueue(_ context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, append([]byte(nil), payload...))
	return nil
}

// Drain returns and clears the buffered payloads.
func (q *MemoryPushQueue) Drain() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.payloads
	q.payloads = nil
	return out
}

var _ PushQueue = (*MemoryPushQueue)(nil)
