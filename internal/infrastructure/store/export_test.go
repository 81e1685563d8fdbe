package store

import (
	"github.com/shopspring/decimal"

	"payment-gateway/internal/domain/entities"
)

// AddToCounters bumps the running counters without touching the index or
// the cache slot, so cache staleness scenarios can be set up directly.
func (l *MemoryLedger) AddToCounters(processor entities.ProcessorType, amount decimal.Decimal) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	counter := l.counters[processor]
	counter.TotalRequests++
	counter.TotalAmount = counter.TotalAmount.Add(amount)
}
