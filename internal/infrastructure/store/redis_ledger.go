package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"payment-gateway/internal/domain/entities"
)

// RedisLedger is the distributed LedgerRepository backend. Every successful
// dispatch lands in two places atomically (one pipeline): the per-processor
// running counters and the time-ordered index keyed by requestedAt. The
// unbounded summary is memoized in a single TTL-bounded cache slot;
// concurrent repopulation is last-writer-wins.
type RedisLedger struct {
	client   *redis.Client
	cacheTTL time.Duration
}

// NewRedisLedger creates a Redis-backed ledger with the given cache TTL
func NewRedisLedger(client *redis.Client, cacheTTL time.Duration) *RedisLedger {
	return &RedisLedger{client: client, cacheTTL: cacheTTL}
}

// Record registers a successful dispatch and invalidates the summary cache
func (l *RedisLedger) Record(ctx context.Context, processor entities.ProcessorType, item *entities.QueueItem) error {
	member, err := msgpack.Marshal(&indexRecord{
		CorrelationID: item.CorrelationID.String(),
		Amount:        item.Amount.String(),
		Processor:     processor.Name(),
	})
	if err != nil {
		return fmt.Errorf("erro ao serializar registro do índice: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, keyCounterRequests+processor.Name())
	pipe.IncrByFloat(ctx, keyCounterAmount+processor.Name(), item.Amount.InexactFloat64())
	pipe.ZAdd(ctx, keyPaymentIndex, &redis.Z{
		Score:  float64(item.RequestedAt.UnixMilli()),
		Member: member,
	})
	pipe.Del(ctx, keySummaryCache)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("erro ao registrar pagamento no ledger: %w", err)
	}
	return nil
}

// cachedSummary is the packed form of the summary cache slot
type cachedSummary struct {
	DefaultRequests  int64  `msgpack:"defaultRequests"`
	DefaultAmount    string `msgpack:"defaultAmount"`
	FallbackRequests int64  `msgpack:"fallbackRequests"`
	FallbackAmount   string `msgpack:"fallbackAmount"`
}

// GetSummary serves unbounded queries from the cache slot or the counters,
// and bounded queries by scanning the time index, inclusive on both ends.
func (l *RedisLedger) GetSummary(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error) {
	if !filter.Bounded() {
		if summary, err := l.getCachedSummary(ctx); err == nil && summary != nil {
			return summary, nil
		}

		summary, err := l.summaryFromCounters(ctx)
		if err != nil {
			return nil, err
		}
		l.cacheSummary(ctx, summary)
		return summary, nil
	}

	return l.summaryFromIndex(ctx, filter)
}

func (l *RedisLedger) getCachedSummary(ctx context.Context) (*entities.PaymentSummary, error) {
	data, err := l.client.Get(ctx, keySummaryCache).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedSummary
	if err := msgpack.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	defaultAmount, err := decimal.NewFromString(cached.DefaultAmount)
	if err != nil {
		return nil, err
	}
	fallbackAmount, err := decimal.NewFromString(cached.FallbackAmount)
	if err != nil {
		return nil, err
	}

	summary := entities.NewPaymentSummary()
	summary.Default = entities.ProcessorSummary{TotalRequests: cached.DefaultRequests, TotalAmount: defaultAmount}
	summary.Fallback = entities.ProcessorSummary{TotalRequests: cached.FallbackRequests, TotalAmount: fallbackAmount}
	return summary, nil
}

func (l *RedisLedger) cacheSummary(ctx context.Context, summary *entities.PaymentSummary) {
	data, err := msgpack.Marshal(&cachedSummary{
		DefaultRequests:  summary.Default.TotalRequests,
		DefaultAmount:    summary.Default.TotalAmount.String(),
		FallbackRequests: summary.Fallback.TotalRequests,
		FallbackAmount:   summary.Fallback.TotalAmount.String(),
	})
	if err != nil {
		return
	}
	// Last-writer-wins: racing repopulations self-correct within the TTL
	l.client.Set(ctx, keySummaryCache, data, l.cacheTTL)
}

func (l *RedisLedger) summaryFromCounters(ctx context.Context) (*entities.PaymentSummary, error) {
	values, err := l.client.MGet(ctx,
		keyCounterRequests+entities.ProcessorTypeDefault.Name(),
		keyCounterAmount+entities.ProcessorTypeDefault.Name(),
		keyCounterRequests+entities.ProcessorTypeFallback.Name(),
		keyCounterAmount+entities.ProcessorTypeFallback.Name(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler contadores do ledger: %w", err)
	}

	summary := entities.NewPaymentSummary()
	summary.Default.TotalRequests = counterToInt(values[0])
	summary.Default.TotalAmount = counterToDecimal(values[1])
	summary.Fallback.TotalRequests = counterToInt(values[2])
	summary.Fallback.TotalAmount = counterToDecimal(values[3])
	return summary, nil
}

func (l *RedisLedger) summaryFromIndex(ctx context.Context, filter *entities.SummaryFilter) (*entities.PaymentSummary, error) {
	from, to := filter.Range()

	members, err := l.client.ZRangeByScore(ctx, keyPaymentIndex, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", from.UnixMilli()),
		Max: fmt.Sprintf("%d", to.UnixMilli()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar índice temporal: %w", err)
	}

	summary := entities.NewPaymentSummary()
	for _, member := range members {
		var record indexRecord
		if err := msgpack.Unmarshal([]byte(member), &record); err != nil {
			continue
		}
		amount, err := decimal.NewFromString(record.Amount)
		if err != nil {
			continue
		}
		summary.AddPayment(entities.ProcessorType(record.Processor), amount)
	}
	return summary, nil
}

// Purge resets counters, index and cache
func (l *RedisLedger) Purge(ctx context.Context) error {
	return l.client.Del(ctx,
		keyCounterRequests+entities.ProcessorTypeDefault.Name(),
		keyCounterAmount+entities.ProcessorTypeDefault.Name(),
		keyCounterRequests+entities.ProcessorTypeFallback.Name(),
		keyCounterAmount+entities.ProcessorTypeFallback.Name(),
		keyPaymentIndex,
		keySummaryCache,
	).Err()
}

func counterToInt(value interface{}) int64 {
	text, ok := value.(string)
	if !ok {
		return 0
	}
	parsed, err := decimal.NewFromString(text)
	if err != nil {
		return 0
	}
	return parsed.IntPart()
}

func counterToDecimal(value interface{}) decimal.Decimal {
	text, ok := value.(string)
	if !ok {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}
