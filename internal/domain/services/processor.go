package services

import (
	"context"

	"payment-gateway/internal/domain/entities"
)

// ProcessorDispatcher performs the outbound call to a single downstream
// processor. A non-nil error means the attempt failed; no error ever
// escapes as a panic, so the caller's fallback logic runs unconditionally.
type ProcessorDispatcher interface {
	Send(ctx context.Context, item *entities.QueueItem, processor entities.ProcessorType) error
}

// HealthProber issues a bounded-latency health probe against a processor
type HealthProber interface {
	Probe(ctx context.Context, processor entities.ProcessorType) (*entities.ProcessorHealth, error)
}

// ProcessorSelector decides which processor a dispatch should try first
type ProcessorSelector interface {
	Select(ctx context.Context) entities.ProcessorType
}
