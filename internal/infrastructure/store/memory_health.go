package store

import (
	"context"
	"sync"
	"time"

	"payment-gateway/internal/domain/entities"
)

type healthEntry struct {
	health    entities.ProcessorHealth
	expiresAt time.Time
}

// MemoryHealthCache is the in-process HealthCache backend
type MemoryHealthCache struct {
	mutex   sync.RWMutex
	entries map[entities.ProcessorType]healthEntry
}

// NewMemoryHealthCache creates an empty health cache
func NewMemoryHealthCache() *MemoryHealthCache {
	return &MemoryHealthCache{
		entries: make(map[entities.ProcessorType]healthEntry),
	}
}

// Set caches a verdict for the given TTL
func (c *MemoryHealthCache) Set(ctx context.Context, processor entities.ProcessorType, health *entities.ProcessorHealth, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[processor] = healthEntry{
		health:    *health,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Get returns the cached verdict, or (nil, nil) on absence/expiry
func (c *MemoryHealthCache) Get(ctx context.Context, processor entities.ProcessorType) (*entities.ProcessorHealth, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[processor]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	health := entry.health
	return &health, nil
}
