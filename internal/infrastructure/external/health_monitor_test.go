package external

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/infrastructure/store"
)

// stubProber returns canned verdicts per processor.
type stubProber struct {
	mutex    sync.Mutex
	verdicts map[entities.ProcessorType]*entities.ProcessorHealth
	errs     map[entities.ProcessorType]error
	probes   int
}

func (p *stubProber) Probe(ctx context.Context, processor entities.ProcessorType) (*entities.ProcessorHealth, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.probes++
	if err := p.errs[processor]; err != nil {
		return nil, err
	}
	return p.verdicts[processor], nil
}

func (p *stubProber) probeCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.probes
}

func waitForVerdict(t *testing.T, cache *store.MemoryHealthCache, processor entities.ProcessorType) *entities.ProcessorHealth {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		verdict, err := cache.Get(context.Background(), processor)
		if err != nil {
			t.Fatalf("cache read failed: %v", err)
		}
		if verdict != nil {
			return verdict
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no verdict cached for %s", processor.Name())
	return nil
}

func TestHealthMonitor_FirstRoundIsImmediate(t *testing.T) {
	prober := &stubProber{
		verdicts: map[entities.ProcessorType]*entities.ProcessorHealth{
			entities.ProcessorTypeDefault:  {Failing: false, MinResponseTime: 50},
			entities.ProcessorTypeFallback: {Failing: false, MinResponseTime: 80},
		},
	}
	cache := store.NewMemoryHealthCache()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A long interval proves the first round does not wait for the ticker
	monitor := NewHealthMonitor(prober, cache, time.Hour)
	monitor.Start(ctx)

	verdict := waitForVerdict(t, cache, entities.ProcessorTypeDefault)
	if verdict.Failing || verdict.MinResponseTime != 50 {
		t.Errorf("default verdict = %+v, want failing=false minResponseTime=50", verdict)
	}

	verdict = waitForVerdict(t, cache, entities.ProcessorTypeFallback)
	if verdict.Failing || verdict.MinResponseTime != 80 {
		t.Errorf("fallback verdict = %+v, want failing=false minResponseTime=80", verdict)
	}
}

func TestHealthMonitor_ProbeFailureCachesSyntheticVerdict(t *testing.T) {
	prober := &stubProber{
		verdicts: map[entities.ProcessorType]*entities.ProcessorHealth{
			entities.ProcessorTypeFallback: {Failing: false},
		},
		errs: map[entities.ProcessorType]error{
			entities.ProcessorTypeDefault: errors.New("health check retornou status inesperado: 429"),
		},
	}
	cache := store.NewMemoryHealthCache()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := NewHealthMonitor(prober, cache, time.Hour)
	monitor.Start(ctx)

	verdict := waitForVerdict(t, cache, entities.ProcessorTypeDefault)
	if !verdict.Failing {
		t.Error("unreachable processor must read as failing until the next probe")
	}

	verdict = waitForVerdict(t, cache, entities.ProcessorTypeFallback)
	if verdict.Failing {
		t.Error("fallback verdict must be unaffected by the default probe failure")
	}
}

func TestHealthMonitor_StopsOnContextCancel(t *testing.T) {
	prober := &stubProber{
		verdicts: map[entities.ProcessorType]*entities.ProcessorHealth{
			entities.ProcessorTypeDefault:  {},
			entities.ProcessorTypeFallback: {},
		},
	}
	cache := store.NewMemoryHealthCache()

	ctx, cancel := context.WithCancel(context.Background())
	monitor := NewHealthMonitor(prober, cache, 10*time.Millisecond)
	monitor.Start(ctx)

	waitForVerdict(t, cache, entities.ProcessorTypeDefault)
	cancel()

	time.Sleep(30 * time.Millisecond)
	before := prober.probeCount()
	time.Sleep(50 * time.Millisecond)
	if after := prober.probeCount(); after != before {
		t.Errorf("monitor kept probing after cancel: %d -> %d", before, after)
	}
}
