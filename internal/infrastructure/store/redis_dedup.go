package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"payment-gateway/internal/infrastructure/logger"
)

// dedupCommands is the slice of the Redis API the dedup set uses.
// *redis.Client satisfies it; tests substitute scripted fakes.
type dedupCommands interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SCard(ctx context.Context, key string) *redis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LIndex(ctx context.Context, key string, index int64) *redis.StringCmd
	LPop(ctx context.Context, key string) *redis.StringCmd
	LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisDedupSet is the distributed DedupSet backend. SADD gives the atomic
// add-if-absent; a companion list tracks insertion order so eviction past
// the cap removes the oldest id first.
type RedisDedupSet struct {
	client     dedupCommands
	maxEntries int64
}

// NewRedisDedupSet creates a bounded Redis-backed dedup set
func NewRedisDedupSet(client *redis.Client, maxEntries int) *RedisDedupSet {
	return &RedisDedupSet{client: client, maxEntries: int64(maxEntries)}
}

// Add marks the id as seen; returns false when already present. Membership
// and the order entry land together or not at all: a failed order write
// undoes the membership, otherwise the id would read as a duplicate on the
// caller's retry without ever having been enqueued.
func (s *RedisDedupSet) Add(ctx context.Context, id string) (bool, error) {
	added, err := s.client.SAdd(ctx, keyDedupSet, id).Result()
	if err != nil {
		return false, fmt.Errorf("erro ao registrar id no conjunto de dedup: %w", err)
	}
	if added == 0 {
		return false, nil
	}

	if err := s.client.RPush(ctx, keyDedupOrder, id).Err(); err != nil {
		if remErr := s.client.SRem(ctx, keyDedupSet, id).Err(); remErr != nil {
			logger.Errorf("Erro ao desfazer registro do id %s no conjunto de dedup: %v", id, remErr)
		}
		return false, fmt.Errorf("erro ao registrar ordem do id: %w", err)
	}

	size, err := s.client.SCard(ctx, keyDedupSet).Result()
	if err != nil {
		return true, nil
	}
	// Evict oldest first. The set shrinks before the order entry is
	// popped, so a failure mid-eviction never strands an id in the set
	// without its order entry; leftover order entries are harmless no-ops
	// on the next pass.
	for size > s.maxEntries {
		oldest, err := s.client.LIndex(ctx, keyDedupOrder, 0).Result()
		if err != nil {
			break
		}
		if err := s.client.SRem(ctx, keyDedupSet, oldest).Err(); err != nil {
			logger.Errorf("Erro ao remover id %s na eviction do dedup: %v", oldest, err)
			break
		}
		if err := s.client.LPop(ctx, keyDedupOrder).Err(); err != nil {
			break
		}
		size--
	}

	return true, nil
}

// Remove unmarks an id (compensating action)
func (s *RedisDedupSet) Remove(ctx context.Context, id string) error {
	if err := s.client.SRem(ctx, keyDedupSet, id).Err(); err != nil {
		return fmt.Errorf("erro ao remover id do conjunto de dedup: %w", err)
	}
	return s.client.LRem(ctx, keyDedupOrder, 1, id).Err()
}

// Size returns the number of tracked ids
func (s *RedisDedupSet) Size(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, keyDedupSet).Result()
}

// Purge clears the set
func (s *RedisDedupSet) Purge(ctx context.Context) error {
	return s.client.Del(ctx, keyDedupSet, keyDedupOrder).Err()
}
