package external

import (
	"context"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
	"payment-gateway/internal/infrastructure/logger"
)

// HealthSelector picks the processor for the next dispatch from the cached
// verdicts alone; it never probes. Absence of a verdict defaults to the
// primary so it is not starved before the first probe completes.
type HealthSelector struct {
	cache services.HealthCache
}

// NewHealthSelector creates a selector over the shared health cache
func NewHealthSelector(cache services.HealthCache) *HealthSelector {
	return &HealthSelector{cache: cache}
}

// Select returns the processor a dispatch should try first
func (s *HealthSelector) Select(ctx context.Context) entities.ProcessorType {
	health, err := s.cache.Get(ctx, entities.ProcessorTypeDefault)
	if err != nil {
		logger.Debugf("Erro ao ler verdito de saúde, usando default: %v", err)
		return entities.ProcessorTypeDefault
	}

	if health != nil && health.Failing {
		logger.Debug("Processador default falhando, usando fallback")
		return entities.ProcessorTypeFallback
	}

	return entities.ProcessorTypeDefault
}
