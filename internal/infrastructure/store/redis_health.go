package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"payment-gateway/internal/domain/entities"
)

// RedisHealthCache stores health verdicts as TTL-bounded buckets, one per
// processor, shared by every service instance.
type RedisHealthCache struct {
	client *redis.Client
}

// NewRedisHealthCache creates a Redis-backed health cache
func NewRedisHealthCache(client *redis.Client) *RedisHealthCache {
	return &RedisHealthCache{client: client}
}

// Set caches a verdict for the given TTL
func (c *RedisHealthCache) Set(ctx context.Context, processor entities.ProcessorType, health *entities.ProcessorHealth, ttl time.Duration) error {
	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("erro ao serializar verdito de saúde: %w", err)
	}
	return c.client.Set(ctx, keyHealthPrefix+processor.Name(), data, ttl).Err()
}

// Get returns the cached verdict, or (nil, nil) on absence/expiry
func (c *RedisHealthCache) Get(ctx context.Context, processor entities.ProcessorType) (*entities.ProcessorHealth, error) {
	data, err := c.client.Get(ctx, keyHealthPrefix+processor.Name()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao ler verdito de saúde: %w", err)
	}

	var health entities.ProcessorHealth
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, fmt.Errorf("erro ao desserializar verdito de saúde: %w", err)
	}
	return &health, nil
}
