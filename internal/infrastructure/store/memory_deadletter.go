package store

import (
	"context"
	"sync"

	"payment-gateway/internal/domain/entities"
)

// MemoryDeadLetter is the in-process DeadLetterSink backend
type MemoryDeadLetter struct {
	mutex sync.Mutex
	items []*entities.QueueItem
}

// NewMemoryDeadLetter creates an empty dead-letter sink
func NewMemoryDeadLetter() *MemoryDeadLetter {
	return &MemoryDeadLetter{}
}

// Push stores a payment that failed on both processors
func (d *MemoryDeadLetter) Push(ctx context.Context, item *entities.QueueItem) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.items = append(d.items, item)
	return nil
}

// Size returns the number of dead-lettered payments
func (d *MemoryDeadLetter) Size(ctx context.Context) (int64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return int64(len(d.items)), nil
}

// Purge discards all dead-lettered payments
func (d *MemoryDeadLetter) Purge(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.items = nil
	return nil
}
