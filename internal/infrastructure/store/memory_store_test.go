package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
)

func newItem(amount string) *entities.QueueItem {
	return entities.NewQueueItem(uuid.New(), decimal.RequireFromString(amount))
}

func TestMemoryQueue_EnqueueDequeue(t *testing.T) {
	ctx := context.Background()
	queue := NewMemoryQueue(4)

	item := newItem("12.34")
	if err := queue.Enqueue(ctx, item); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if size, _ := queue.Size(ctx); size != 1 {
		t.Errorf("size = %d, want 1", size)
	}

	got, err := queue.Dequeue(ctx, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if got != item {
		t.Errorf("dequeued %v, want the enqueued item", got)
	}
}

func TestMemoryQueue_FullBufferIsUnavailable(t *testing.T) {
	ctx := context.Background()
	queue := NewMemoryQueue(1)

	if err := queue.Enqueue(ctx, newItem("1")); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}

	err := queue.Enqueue(ctx, newItem("2"))
	if !errors.Is(err, services.ErrQueueUnavailable) {
		t.Errorf("expected ErrQueueUnavailable on a full buffer, got %v", err)
	}

	// Enqueue never blocks, so the context state does not change the
	// saturation verdict
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	err = queue.Enqueue(canceled, newItem("3"))
	if !errors.Is(err, services.ErrQueueUnavailable) {
		t.Errorf("expected ErrQueueUnavailable with a canceled context, got %v", err)
	}
}

func TestMemoryQueue_DequeueTimeoutIsNotAnError(t *testing.T) {
	queue := NewMemoryQueue(1)

	start := time.Now()
	item, err := queue.Dequeue(context.Background(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("timeout must not be an error, got %v", err)
	}
	if item != nil {
		t.Errorf("expected nil item on timeout, got %v", item)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned after %s, before the poll timeout", elapsed)
	}
}

func TestMemoryQueue_Purge(t *testing.T) {
	ctx := context.Background()
	queue := NewMemoryQueue(8)
	for i := 0; i < 5; i++ {
		if err := queue.Enqueue(ctx, newItem("1")); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}

	if err := queue.Purge(ctx); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if size, _ := queue.Size(ctx); size != 0 {
		t.Errorf("size after purge = %d, want 0", size)
	}
}

func TestMemoryDedupSet_AddAndRemove(t *testing.T) {
	ctx := context.Background()
	set := NewMemoryDedupSet(100)

	added, err := set.Add(ctx, "a")
	if err != nil || !added {
		t.Fatalf("first add = (%v, %v), want (true, nil)", added, err)
	}

	added, err = set.Add(ctx, "a")
	if err != nil || added {
		t.Fatalf("second add = (%v, %v), want (false, nil)", added, err)
	}

	if err := set.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	added, _ = set.Add(ctx, "a")
	if !added {
		t.Error("id must be admissible again after removal")
	}
}

func TestMemoryDedupSet_EvictionReopensWindow(t *testing.T) {
	ctx := context.Background()
	set := NewMemoryDedupSet(3)

	for i := 0; i < 4; i++ {
		if _, err := set.Add(ctx, fmt.Sprintf("id-%d", i)); err != nil {
			t.Fatalf("add id-%d failed: %v", i, err)
		}
	}

	if size, _ := set.Size(ctx); size != 3 {
		t.Errorf("size = %d, want cap 3", size)
	}

	// id-0 was the oldest entry, so it fell out of the window
	added, _ := set.Add(ctx, "id-0")
	if !added {
		t.Error("evicted id must be treated as new again")
	}

	// id-3 is still inside the window
	added, _ = set.Add(ctx, "id-3")
	if added {
		t.Error("id inside the window must still be a duplicate")
	}
}

func TestMemoryHealthCache_SetGetExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryHealthCache()

	if got, err := cache.Get(ctx, entities.ProcessorTypeDefault); err != nil || got != nil {
		t.Fatalf("empty cache Get = (%v, %v), want (nil, nil)", got, err)
	}

	verdict := &entities.ProcessorHealth{Failing: true, MinResponseTime: 120}
	if err := cache.Set(ctx, entities.ProcessorTypeDefault, verdict, 30*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := cache.Get(ctx, entities.ProcessorTypeDefault)
	if err != nil || got == nil {
		t.Fatalf("Get = (%v, %v), want cached verdict", got, err)
	}
	if !got.Failing || got.MinResponseTime != 120 {
		t.Errorf("cached verdict = %+v, want failing=true minResponseTime=120", got)
	}

	// Verdicts are per processor
	if other, _ := cache.Get(ctx, entities.ProcessorTypeFallback); other != nil {
		t.Error("fallback verdict must be independent of default")
	}

	time.Sleep(40 * time.Millisecond)
	if expired, _ := cache.Get(ctx, entities.ProcessorTypeDefault); expired != nil {
		t.Error("expired verdict must read as absent")
	}
}

func TestMemoryDeadLetter(t *testing.T) {
	ctx := context.Background()
	sink := NewMemoryDeadLetter()

	if err := sink.Push(ctx, newItem("3.50")); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if size, _ := sink.Size(ctx); size != 1 {
		t.Errorf("size = %d, want 1", size)
	}

	if err := sink.Purge(ctx); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if size, _ := sink.Size(ctx); size != 0 {
		t.Errorf("size after purge = %d, want 0", size)
	}
}
