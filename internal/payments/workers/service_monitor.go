package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"payflow/internal/payments"
	"payflow/pkg/metrics"
)

// HealthChecker is the probe side of the processor gateway.
type HealthChecker interface {
	CheckHealth(ctx context.Context, processor payments.ProcessorType) (payments.ProcessorHealth, error)
}

// ProcessorHealthMonitor periodically probes both processors' liveness
// endpoints and caches the last observation. Routing does not read this
// state; it feeds logs and the processor_up gauge only.
type ProcessorHealthMonitor struct {
	gateway  HealthChecker
	logger   *slog.Logger
	interval time.Duration

	mu       sync.RWMutex
	statuses map[payments.ProcessorType]payments.ProcessorHealth
}

func NewProcessorHealthMonitor(gateway HealthChecker, interval time.Duration, logger *slog.Logger) *ProcessorHealthMonitor {
	return &ProcessorHealthMonitor{
		gateway:  gateway,
		logger:   logger,
		interval: interval,
		statuses: make(map[payments.ProcessorType]payments.ProcessorHealth),
	}
}

func (m *ProcessorHealthMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probeAll(ctx)
	for {
		select {
		case <-ticker.C:
			m.probeAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *ProcessorHealthMonitor) probeAll(ctx context.Context) {
	m.probe(ctx, payments.ProcessorTypeDefault)
	m.probe(ctx, payments.ProcessorTypeFallback)
}

func (m *ProcessorHealthMonitor) probe(ctx context.Context, processor payments.ProcessorType) {
	health, err := m.gateway.CheckHealth(ctx, processor)
	if err != nil {
		m.logger.Warn("health probe failed", "processor", processor, "error", err)
		health = payments.ProcessorHealth{Failing: true}
	}

	m.mu.Lock()
	prev, seen := m.statuses[processor]
	m.statuses[processor] = health
	m.mu.Unlock()

	if !seen || prev.Failing != health.Failing {
		m.logger.Info("processor health changed",
			"processor", processor, "failing", health.Failing, "minResponseTime", health.MinResponseTime)
	}

	up := 1.0
	if health.Failing {
		up = 0
	}
	metrics.ProcessorUp.WithLabelValues(string(processor)).Set(up)
}

// Snapshot returns the last observed health for a processor.
func (m *ProcessorHealthMonitor) Snapshot(processor payments.ProcessorType) (payments.ProcessorHealth, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.statuses[processor]
	return h, ok
}
