package store

import (
	"context"
	"time"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
)

// MemoryQueue is the in-process PaymentQueue backend, used in
// single-instance mode and by the tests.
type MemoryQueue struct {
	items chan *entities.QueueItem
}

// NewMemoryQueue creates a bounded in-process queue
func NewMemoryQueue(bufferSize int) *MemoryQueue {
	return &MemoryQueue{
		items: make(chan *entities.QueueItem, bufferSize),
	}
}

// Enqueue pushes without blocking; a full buffer surfaces as
// ErrQueueUnavailable so admission can compensate.
func (q *MemoryQueue) Enqueue(ctx context.Context, item *entities.QueueItem) error {
	select {
	case q.items <- item:
		return nil
	default:
		return services.ErrQueueUnavailable
	}
}

// Dequeue waits up to timeout for an item
func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*entities.QueueItem, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case item := <-q.items:
		return item, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current queue depth
func (q *MemoryQueue) Size(ctx context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

// Purge discards every queued item
func (q *MemoryQueue) Purge(ctx context.Context) error {
	for {
		select {
		case <-q.items:
		default:
			return nil
		}
	}
}
