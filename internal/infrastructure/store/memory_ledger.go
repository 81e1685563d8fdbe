package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"payment-gateway/internal/domain/entities"
)

type indexEntry struct {
	processor   entities.ProcessorType
	amount      decimal.Decimal
	requestedAt time.Time
}

// MemoryLedger is the in-process LedgerRepository backend. It keeps both
// storage strategies in step: running counters per processor for O(1)
// unbounded summaries and a time-ordered index for range queries, plus a
// single TTL-bounded summary cache slot.
type MemoryLedger struct {
	mutex    sync.Mutex
	counters map[entities.ProcessorType]*entities.ProcessorSummary
	index    []indexEntry

	cached         *entities.PaymentSummary
	cacheExpiresAt time.Time
	cacheTTL       time.Duration
}

// NewMemoryLedger creates an empty ledger with the given summary cache TTL
func NewMemoryLedger(cacheTTL time.Duration) *MemoryLedger {
	return &MemoryLedger{
		counters: map[entities.ProcessorType]*entities.ProcessorSummary{
			entities.ProcessorTypeDefault:  {TotalAmount: decimal.Zero},
			entities.ProcessorTypeFallback: {TotalAmount: decimal.Zero},
		},
		cacheTTL: cacheTTL,
	}
}

// Record registers a successful dispatch and invalidates the summary cache
func (l *MemoryLedger) Record(ctx context.Context, processor entities.ProcessorType, item *entities.QueueItem) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	counter := l.counters[processor]
	counter.TotalRequests++
	counter.TotalAmount = counter.TotalAmount.Add(item.Amount)

	l.index = append(l.index, indexEntry{
		processor:   processor,
		amount:      item.Amount,
		requestedAt: item.RequestedAt,
	})

	l.cached = nil
	return nil
}

// GetSummary serves unbounded queries from the cache slot or the counters,
// and bounded queries from the time index (inclusive on both ends).
func (l *MemoryLedger) GetSummary(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !filter.Bounded() {
		if l.cached != nil && time.Now().Before(l.cacheExpiresAt) {
			return l.cached.Clone(), nil
		}

		summary := entities.NewPaymentSummary()
		summary.Default = *l.counters[entities.ProcessorTypeDefault]
		summary.Fallback = *l.counters[entities.ProcessorTypeFallback]

		l.cached = summary.Clone()
		l.cacheExpiresAt = time.Now().Add(l.cacheTTL)
		return summary, nil
	}

	from, to := filter.Range()
	summary := entities.NewPaymentSummary()
	for _, entry := range l.index {
		if entry.requestedAt.Before(from) || entry.requestedAt.After(to) {
			continue
		}
		summary.AddPayment(entry.processor, entry.amount)
	}
	return summary, nil
}

// Purge resets counters, index and cache
func (l *MemoryLedger) Purge(ctx context.Context) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, counter := range l.counters {
		counter.TotalRequests = 0
		counter.TotalAmount = decimal.Zero
	}
	l.index = nil
	l.cached = nil
	return nil
}
