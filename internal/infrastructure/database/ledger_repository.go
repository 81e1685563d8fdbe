package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/repositories"
)

// PostgresLedger implements LedgerRepository on Postgres: the
// payment_summary table carries the running counters, the payments table
// is the time-ordered index for range queries. The unbounded summary is
// memoized in an in-process TTL cache, invalidated on every Record.
type PostgresLedger struct {
	db    *sql.DB
	cache *summaryCache
}

// summaryCache provides short-lived memoization for the unbounded summary
type summaryCache struct {
	mutex     sync.Mutex
	data      *entities.PaymentSummary
	expiresAt time.Time
	ttl       time.Duration
}

// NewPostgresLedger creates a Postgres-backed ledger
func NewPostgresLedger(db *sql.DB, cacheTTL time.Duration) repositories.LedgerRepository {
	return &PostgresLedger{
		db:    db,
		cache: &summaryCache{ttl: cacheTTL},
	}
}

// Record registers a successful dispatch in counters and index
func (r *PostgresLedger) Record(ctx context.Context, processor entities.ProcessorType, item *entities.QueueItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação do ledger: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE payment_summary
		SET total_requests = total_requests + 1,
		    total_amount = total_amount + $1,
		    updated_at = NOW()
		WHERE processor_type = $2
	`, item.Amount, processor.Name())
	if err != nil {
		return fmt.Errorf("erro ao atualizar contadores do ledger: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (correlation_id, amount, processor_type, requested_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (correlation_id) DO NOTHING
	`, item.CorrelationID, item.Amount, processor.Name(), item.RequestedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar pagamento: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar transação do ledger: %w", err)
	}

	r.cache.invalidate()
	return nil
}

// GetSummary returns aggregated totals, cached when unbounded
func (r *PostgresLedger) GetSummary(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error) {
	if !filter.Bounded() {
		if cached := r.cache.get(); cached != nil {
			return cached, nil
		}

		summary, err := r.summaryFromCounters(ctx)
		if err != nil {
			return nil, err
		}
		r.cache.set(summary)
		return summary, nil
	}

	return r.summaryFromRows(ctx, filter)
}

func (r *PostgresLedger) summaryFromCounters(ctx context.Context) (*entities.PaymentSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT processor_type, total_requests, total_amount FROM payment_summary")
	if err != nil {
		return nil, fmt.Errorf("erro ao obter resumo: %w", err)
	}
	defer rows.Close()

	summary := entities.NewPaymentSummary()
	for rows.Next() {
		var processorType string
		var totalRequests int64
		var totalAmount decimal.Decimal
		if err := rows.Scan(&processorType, &totalRequests, &totalAmount); err != nil {
			return nil, fmt.Errorf("erro ao fazer scan do resumo: %w", err)
		}
		counter := entities.ProcessorSummary{TotalRequests: totalRequests, TotalAmount: totalAmount}
		switch entities.ProcessorType(processorType) {
		case entities.ProcessorTypeDefault:
			summary.Default = counter
		case entities.ProcessorTypeFallback:
			summary.Fallback = counter
		}
	}
	return summary, rows.Err()
}

func (r *PostgresLedger) summaryFromRows(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error) {
	from, to := filter.Range()

	rows, err := r.db.QueryContext(ctx, `
		SELECT processor_type,
		       COALESCE(COUNT(*), 0) AS total_requests,
		       COALESCE(SUM(amount), 0) AS total_amount
		FROM payments
		WHERE requested_at >= $1 AND requested_at <= $2
		GROUP BY processor_type
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter resumo com filtros: %w", err)
	}
	defer rows.Close()

	summary := entities.NewPaymentSummary()
	for rows.Next() {
		var processorType string
		var totalRequests int64
		var totalAmount decimal.Decimal
		if err := rows.Scan(&processorType, &totalRequests, &totalAmount); err != nil {
			return nil, fmt.Errorf("erro ao fazer scan do resumo com filtros: %w", err)
		}
		counter := entities.ProcessorSummary{TotalRequests: totalRequests, TotalAmount: totalAmount}
		switch entities.ProcessorType(processorType) {
		case entities.ProcessorTypeDefault:
			summary.Default = counter
		case entities.ProcessorTypeFallback:
			summary.Fallback = counter
		}
	}
	return summary, rows.Err()
}

// Purge resets counters, index and cache
func (r *PostgresLedger) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE payment_summary SET total_requests = 0, total_amount = 0.00"); err != nil {
		return fmt.Errorf("erro ao limpar resumo de pagamentos: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "TRUNCATE TABLE payments"); err != nil {
		return fmt.Errorf("erro ao limpar pagamentos: %w", err)
	}
	r.cache.invalidate()
	return nil
}

func (c *summaryCache) get() *entities.PaymentSummary {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.data == nil || time.Now().After(c.expiresAt) {
		return nil
	}
	return c.data.Clone()
}

func (c *summaryCache) set(summary *entities.PaymentSummary) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = summary.Clone()
	c.expiresAt = time.Now().Add(c.ttl)
}

func (c *summaryCache) invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = nil
}
