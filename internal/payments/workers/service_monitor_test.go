package workers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payflow/internal/payments"
	"payflow/internal/payments/workers"
)

type stubHealthChecker struct {
	mu     sync.Mutex
	health map[payments.ProcessorType]payments.ProcessorHealth
	err    error
}

func (c *stubHealthChecker) CheckHealth(_ context.Context, processor payments.ProcessorType) (payments.ProcessorHealth, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return payments.ProcessorHealth{}, c.err
	}
	return c.health[processor], nil
}

func TestMonitorCachesObservedHealth(t *testing.T) {
	checker := &stubHealthChecker{health: map[payments.ProcessorType]payments.ProcessorHealth{
		payments.ProcessorTypeDefault:  {Failing: false, MinResponseTime: 12},
		payments.ProcessorTypeFallback: {Failing: true, MinResponseTime: 900},
	}}
	monitor := workers.NewProcessorHealthMonitor(checker, 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	require.Eventually(t, func() bool {
		_, ok := monitor.Snapshot(payments.ProcessorTypeFallback)
		return ok
	}, time.Second, 5*time.Millisecond)

	defaultHealth, ok := monitor.Snapshot(payments.ProcessorTypeDefault)
	require.True(t, ok)
	assert.False(t, defaultHealth.Failing)
	assert.Equal(t, int64(12), defaultHealth.MinResponseTime)

	fallbackHealth, _ := monitor.Snapshot(payments.ProcessorTypeFallback)
	assert.True(t, fallbackHealth.Failing)
}

func TestMonitorMarksProcessorFailingOnProbeError(t *testing.T) {
	checker := &stubHealthChecker{err: errors.New("probe timeout")}
	monitor := workers.NewProcessorHealthMonitor(checker, 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)

	require.Eventually(t, func() bool {
		h, ok := monitor.Snapshot(payments.ProcessorTypeDefault)
		return ok && h.Failing
	}, time.Second, 5*time.Millisecond)
}
