package services

import (
	"context"
	"errors"
	"time"

	"payment-gateway/internal/domain/entities"
)

// ErrQueueUnavailable is returned when the payment queue rejects a push
// (full or unreachable). Callers may retry upstream.
var ErrQueueUnavailable = errors.New("fila de pagamentos indisponível")

// PaymentQueue is the durable FIFO of accepted payments, shared by all
// service instances.
type PaymentQueue interface {
	// Enqueue pushes an item onto the queue
	Enqueue(ctx context.Context, item *entities.QueueItem) error

	// Dequeue blocks up to timeout waiting for an item. Returns (nil, nil)
	// when the queue stayed empty, so worker loops can observe cancellation.
	Dequeue(ctx context.Context, timeout time.Duration) (*entities.QueueItem, error)

	// Size returns the current queue depth
	Size(ctx context.Context) (int64, error)

	// Purge discards every queued item
	Purge(ctx context.Context) error
}

// DedupSet tracks correlation ids already admitted. Bounded: once the
// configured cap is exceeded the oldest entries are evicted.
type DedupSet interface {
	// Add marks the id as seen. Returns false when it was already present
	// (add-if-absent, atomic on the store).
	Add(ctx context.Context, id string) (bool, error)

	// Remove unmarks an id (compensating action when the enqueue fails)
	Remove(ctx context.Context, id string) error

	// Size returns the number of tracked ids
	Size(ctx context.Context) (int64, error)

	// Purge clears the set
	Purge(ctx context.Context) error
}

// HealthCache stores TTL-bounded health verdicts per processor
type HealthCache interface {
	// Set caches a verdict for the given TTL
	Set(ctx context.Context, processor entities.ProcessorType, health *entities.ProcessorHealth, ttl time.Duration) error

	// Get returns the cached verdict, or (nil, nil) when absent or expired
	Get(ctx context.Context, processor entities.ProcessorType) (*entities.ProcessorHealth, error)
}

// DeadLetterSink receives payments that failed on both processors.
// Items are kept for out-of-band inspection and are never re-queued
// automatically.
type DeadLetterSink interface {
	Push(ctx context.Context, item *entities.QueueItem) error
	Size(ctx context.Context) (int64, error)
	Purge(ctx context.Context) error
}
