package repository

import "context"

// PushQueue hands notification payloads to the push-delivery pipeline.
// Delivery mechanics live outside this service; the queue write is the
// boundary.
type PushQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}
