package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const pushQueueKey = "gamehub:push:pending"

type redisPushQueue struct {
	client *redis.Client
}

func NewRedisPushQueue(client *redis.Client) PushQueue {
	return &redisPushQueue{client: client}
}

func (q *redisPushQueue) Enqueue(ctx context.Context, payload []byte) error {
	return q.client.LPush(ctx, pushQueueKey, payload).Err()
}
