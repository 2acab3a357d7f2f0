package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"payflow/internal/payments"
	"payflow/pkg/metrics"
)

const (
	idleSleep  = 10 * time.Millisecond
	errorSleep = 100 * time.Millisecond
)

type Dequeuer interface {
	Dequeue(ctx context.Context) (payments.PaymentRequest, error)
}

type Router interface {
	Route(ctx context.Context, p payments.PaymentRequest) payments.ProcessorType
}

type RecordWriter interface {
	Insert(ctx context.Context, record payments.PaymentRecord) error
}

// WorkerPool drains the work queue with a fixed number of loops. A single
// permit channel caps in-flight router invocations across all loops, so the
// load offered to the processors is bounded regardless of worker count.
type WorkerPool struct {
	queue   Dequeuer
	router  Router
	store   RecordWriter
	logger  *slog.Logger
	workers int
	permits chan struct{}
}

func NewWorkerPool(
	queue Dequeuer,
	router Router,
	store RecordWriter,
	workerCount, maxConcurrentCalls int,
	logger *slog.Logger,
) *WorkerPool {
	return &WorkerPool{
		queue:   queue,
		router:  router,
		store:   store,
		logger:  logger,
		workers: workerCount,
		permits: make(chan struct{}, maxConcurrentCalls),
	}
}

// Run blocks until ctx is cancelled. Cancellation stops new dequeues; payments
// already dequeued are carried through routing and the record write, and
// whatever is still queued stays queued for the next process.
func (p *WorkerPool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx)
		}()
	}
	wg.Wait()
}

// loop never dies on a bad item: decode failures, store write failures and
// anything else unexpected are logged, slept on and skipped.
func (p *WorkerPool) loop(ctx context.Context) {
	for ctx.Err() == nil {
		payment, err := p.queue.Dequeue(ctx)
		if errors.Is(err, payments.ErrQueueEmpty) {
			sleep(ctx, idleSleep)
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("dequeue failed", "error", err)
			sleep(ctx, errorSleep)
			continue
		}

		if err := p.process(ctx, payment); err != nil {
			p.logger.Error("payment processing failed", "correlationId", payment.CorrelationId, "error", err)
			sleep(ctx, errorSleep)
		}
	}
}

// process holds one permit for the whole route-and-record step. The permit is
// released exactly once, on every path.
func (p *WorkerPool) process(ctx context.Context, payment payments.PaymentRequest) error {
	// The dequeue was destructive, so once a payment is in hand it must reach
	// the accounting store even during shutdown. The permit wait is bounded by
	// in-flight calls finishing and is never abandoned on cancellation.
	p.permits <- struct{}{}
	defer func() { <-p.permits }()

	// Once routing starts, shutdown must not abort the call mid-flight: the
	// gateway's own timeouts bound it instead.
	callCtx := context.WithoutCancel(ctx)

	processor := p.router.Route(callCtx, payment)

	record := payments.PaymentRecord{
		CorrelationId: payment.CorrelationId,
		Amount:        payment.Amount,
		RequestedAt:   payment.RequestedAt,
		Processor:     processor,
	}

	if err := p.store.Insert(callCtx, record); err != nil {
		return fmt.Errorf("record write: %w", err)
	}

	metrics.PaymentsProcessed.WithLabelValues(string(processor)).Inc()
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
