package repositories

import (
	"context"

	"payment-gateway/internal/domain/entities"
)

// LedgerRepository defines the interface for the per-processor aggregate
// ledger. Implementations keep both views consistent: O(1) running counters
// for unbounded summaries and a time-ordered index for range queries.
type LedgerRepository interface {
	// Record registers a successfully dispatched payment against the
	// effective processor and invalidates the cached summary.
	Record(ctx context.Context, processor entities.ProcessorType, item *entities.QueueItem) error

	// GetSummary returns aggregated totals. Without bounds it may serve a
	// short-TTL cached value; with bounds it scans the time index,
	// inclusive on both ends.
	GetSummary(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error)

	// Purge resets counters, index and cache
	Purge(ctx context.Context) error
}
