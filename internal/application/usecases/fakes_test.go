package usecases

import (
	"context"
	"time"

	"payment-gateway/internal/domain/entities"
)

// fakeDedupSet tracks ids in memory and can be forced to fail.
type fakeDedupSet struct {
	seen    map[string]struct{}
	addErr  error
	removed []string
}

func newFakeDedupSet() *fakeDedupSet {
	return &fakeDedupSet{seen: make(map[string]struct{})}
}

func (f *fakeDedupSet) Add(ctx context.Context, id string) (bool, error) {
	if f.addErr != nil {
		return false, f.addErr
	}
	if _, exists := f.seen[id]; exists {
		return false, nil
	}
	f.seen[id] = struct{}{}
	return true, nil
}

func (f *fakeDedupSet) Remove(ctx context.Context, id string) error {
	delete(f.seen, id)
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeDedupSet) Size(ctx context.Context) (int64, error) {
	return int64(len(f.seen)), nil
}

func (f *fakeDedupSet) Purge(ctx context.Context) error {
	f.seen = make(map[string]struct{})
	return nil
}

// fakeQueue records enqueued items and can be forced to fail.
type fakeQueue struct {
	items      []*entities.QueueItem
	enqueueErr error
	purged     bool
	purgeErr   error
}

func (f *fakeQueue) Enqueue(ctx context.Context, item *entities.QueueItem) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeQueue) Dequeue(ctx context.Context, timeout time.Duration) (*entities.QueueItem, error) {
	if len(f.items) == 0 {
		return nil, nil
	}
	item := f.items[0]
	f.items = f.items[1:]
	return item, nil
}

func (f *fakeQueue) Size(ctx context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeQueue) Purge(ctx context.Context) error {
	f.purged = true
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.items = nil
	return nil
}

// fakeLedger captures recorded payments and serves a canned summary.
type fakeLedger struct {
	summary    *entities.PaymentSummary
	summaryErr error
	purged     bool
	purgeErr   error
}

func (f *fakeLedger) Record(ctx context.Context, processor entities.ProcessorType, item *entities.QueueItem) error {
	return nil
}

func (f *fakeLedger) GetSummary(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeLedger) Purge(ctx context.Context) error {
	f.purged = true
	return f.purgeErr
}

// fakeDeadLetter counts purges.
type fakeDeadLetter struct {
	items  []*entities.QueueItem
	purged bool
}

func (f *fakeDeadLetter) Push(ctx context.Context, item *entities.QueueItem) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeDeadLetter) Size(ctx context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeDeadLetter) Purge(ctx context.Context) error {
	f.purged = true
	f.items = nil
	return nil
}
