package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"payment-gateway/internal/domain/entities"
)

// RedisDeadLetter keeps payments that failed on both processors on a
// Redis list for out-of-band inspection.
type RedisDeadLetter struct {
	client *redis.Client
}

// NewRedisDeadLetter creates a Redis-backed dead-letter sink
func NewRedisDeadLetter(client *redis.Client) *RedisDeadLetter {
	return &RedisDeadLetter{client: client}
}

// Push stores a payment that failed on both processors
func (d *RedisDeadLetter) Push(ctx context.Context, item *entities.QueueItem) error {
	data, err := encodeQueueItem(item)
	if err != nil {
		return fmt.Errorf("erro ao serializar item para dead-letter: %w", err)
	}
	return d.client.RPush(ctx, keyDeadLetter, data).Err()
}

// Size returns the number of dead-lettered payments
func (d *RedisDeadLetter) Size(ctx context.Context) (int64, error) {
	return d.client.LLen(ctx, keyDeadLetter).Result()
}

// Purge discards all dead-lettered payments
func (d *RedisDeadLetter) Purge(ctx context.Context) error {
	return d.client.Del(ctx, keyDeadLetter).Err()
}
