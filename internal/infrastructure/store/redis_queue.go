package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
)

// RedisQueue is the distributed PaymentQueue backend: LPUSH on admission,
// BRPOP on the worker side, so ordering is FIFO across all instances.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a Redis-backed queue
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// Enqueue pushes an item onto the shared queue
func (q *RedisQueue) Enqueue(ctx context.Context, item *entities.QueueItem) error {
	data, err := encodeQueueItem(item)
	if err != nil {
		return fmt.Errorf("erro ao serializar item da fila: %w", err)
	}

	if err := q.client.LPush(ctx, keyPaymentQueue, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", services.ErrQueueUnavailable, err)
	}
	return nil
}

// Dequeue blocks up to timeout waiting for an item
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*entities.QueueItem, error) {
	result, err := q.client.BRPop(ctx, timeout, keyPaymentQueue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao remover item da fila: %w", err)
	}

	// BRPop returns [key, value]
	return decodeQueueItem([]byte(result[1]))
}

// Size returns the current queue depth
func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, keyPaymentQueue).Result()
}

// Purge discards every queued item
func (q *RedisQueue) Purge(ctx context.Context) error {
	return q.client.Del(ctx, keyPaymentQueue).Err()
}
