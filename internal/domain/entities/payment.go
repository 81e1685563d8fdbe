package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessorType represents the type of payment processor
type ProcessorType string

const (
	ProcessorTypeDefault  ProcessorType = "default"
	ProcessorTypeFallback ProcessorType = "fallback"
)

// Name returns the wire name of the processor
func (t ProcessorType) Name() string {
	return string(t)
}

// FeeRate returns the fee rate charged by the processor.
// Informational only, never applied against the ledger.
func (t ProcessorType) FeeRate() decimal.Decimal {
	if t == ProcessorTypeFallback {
		return decimal.NewFromFloat(0.10)
	}
	return decimal.NewFromFloat(0.01)
}

// QueueItem represents an accepted payment waiting for dispatch.
// RequestedAt is assigned at admission time, not at submission time.
// Immutable once enqueued; owned by a single worker after dequeue.
type QueueItem struct {
	CorrelationID uuid.UUID
	Amount        decimal.Decimal
	RequestedAt   time.Time
}

// NewQueueItem creates a queue item stamped with the admission instant
func NewQueueItem(correlationID uuid.UUID, amount decimal.Decimal) *QueueItem {
	return &QueueItem{
		CorrelationID: correlationID,
		Amount:        amount,
		RequestedAt:   time.Now().UTC(),
	}
}

// ProcessorHealth represents a cached health verdict for a processor
type ProcessorHealth struct {
	Failing         bool  `json:"failing"`
	MinResponseTime int64 `json:"minResponseTime"`
}
