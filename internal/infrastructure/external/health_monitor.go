package external

import (
	"context"
	"time"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
	"payment-gateway/internal/infrastructure/logger"
)

const (
	// Successful verdicts live longer than synthetic failing ones so the
	// system re-probes sooner after an outage.
	healthyVerdictTTL = 8 * time.Second
	failingVerdictTTL = 3 * time.Second
)

// HealthMonitor periodically probes both processors and caches the verdicts
// in the shared health cache, where every instance's selector can see them.
type HealthMonitor struct {
	prober   services.HealthProber
	cache    services.HealthCache
	interval time.Duration
}

// NewHealthMonitor creates a monitor with the given probe interval
func NewHealthMonitor(prober services.HealthProber, cache services.HealthCache, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{
		prober:   prober,
		cache:    cache,
		interval: interval,
	}
}

// Start launches the probe loop. The first round runs immediately so the
// selector has verdicts right after startup.
func (m *HealthMonitor) Start(ctx context.Context) {
	go func() {
		m.probeAll(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.probeAll(ctx)
			case <-ctx.Done():
				logger.Info("Monitor de saúde parado")
				return
			}
		}
	}()
}

func (m *HealthMonitor) probeAll(ctx context.Context) {
	m.probe(ctx, entities.ProcessorTypeDefault)
	m.probe(ctx, entities.ProcessorTypeFallback)
}

func (m *HealthMonitor) probe(ctx context.Context, processor entities.ProcessorType) {
	health, err := m.prober.Probe(ctx, processor)
	if err != nil {
		logger.Errorf("Health check para %s falhou: %v", processor.Name(), err)

		// Synthetic verdict: steer around the processor until the next probe
		synthetic := &entities.ProcessorHealth{Failing: true}
		if cacheErr := m.cache.Set(ctx, processor, synthetic, failingVerdictTTL); cacheErr != nil {
			logger.Errorf("Erro ao registrar verdito sintético para %s: %v", processor.Name(), cacheErr)
		}
		return
	}

	if err := m.cache.Set(ctx, processor, health, healthyVerdictTTL); err != nil {
		logger.Errorf("Erro ao registrar verdito de saúde para %s: %v", processor.Name(), err)
		return
	}

	logger.LogHealthVerdict(processor.Name(), health.Failing, health.MinResponseTime)
}
