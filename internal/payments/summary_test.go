package payments_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"payflow/internal/payments"
)

type stubStore struct {
	records []payments.PaymentRecord
	err     error
}

func (s *stubStore) Insert(context.Context, payments.PaymentRecord) error { return nil }
func (s *stubStore) Purge(context.Context) error                          { return nil }

func (s *stubStore) Range(_ context.Context, from, to *time.Time) ([]payments.PaymentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []payments.PaymentRecord
	for _, r := range s.records {
		if from != nil && r.RequestedAt.Before(*from) {
			continue
		}
		if to != nil && r.RequestedAt.After(*to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func record(processor payments.ProcessorType, amount float64, at time.Time) payments.PaymentRecord {
	return payments.PaymentRecord{
		CorrelationId: "cid",
		Amount:        amount,
		RequestedAt:   at,
		Processor:     processor,
	}
}

func newAggregator(store payments.AccountingStore) *payments.SummaryAggregator {
	return payments.NewSummaryAggregator(store, 200*time.Millisecond, discardLogger())
}

var baseTime = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func TestSummarizePartitionsByProcessor(t *testing.T) {
	store := &stubStore{records: []payments.PaymentRecord{
		record(payments.ProcessorTypeDefault, 100.00, baseTime),
		record(payments.ProcessorTypeFallback, 50.00, baseTime.Add(time.Second)),
		record(payments.ProcessorTypeFallback, 50.00, baseTime.Add(2*time.Second)),
		record(payments.ProcessorTypeFallback, 50.00, baseTime.Add(3*time.Second)),
		record(payments.ProcessorTypeError, 999.99, baseTime.Add(4*time.Second)),
	}}

	summary := newAggregator(store).Summarize(context.Background(), nil, nil)

	assert.Equal(t, int64(1), summary.Default.TotalRequests)
	assert.Equal(t, 100.00, summary.Default.TotalAmount)
	assert.Equal(t, 5.00, summary.Default.TotalFee)
	assert.Equal(t, 0.05, summary.Default.FeeRate)

	assert.Equal(t, int64(3), summary.Fallback.TotalRequests)
	assert.Equal(t, 150.00, summary.Fallback.TotalAmount)
	assert.Equal(t, 22.50, summary.Fallback.TotalFee)
	assert.Equal(t, 0.15, summary.Fallback.FeeRate)
}

func TestSummarizeRoundsOnceAtBoundary(t *testing.T) {
	// 10.004 + 10.004 = 20.008; rounding each term first would give 20.00.
	store := &stubStore{records: []payments.PaymentRecord{
		record(payments.ProcessorTypeDefault, 10.004, baseTime),
		record(payments.ProcessorTypeDefault, 10.004, baseTime.Add(time.Second)),
	}}

	summary := newAggregator(store).Summarize(context.Background(), nil, nil)

	assert.Equal(t, 20.01, summary.Default.TotalAmount)
	assert.Equal(t, 1.00, summary.Default.TotalFee) // 20.008 * 0.05 = 1.0004
}

func TestSummarizeFiltersByTimeRange(t *testing.T) {
	store := &stubStore{records: []payments.PaymentRecord{
		record(payments.ProcessorTypeDefault, 10.00, baseTime),
		record(payments.ProcessorTypeDefault, 20.00, baseTime.Add(time.Minute)),
		record(payments.ProcessorTypeDefault, 40.00, baseTime.Add(2*time.Minute)),
	}}

	from := baseTime.Add(30 * time.Second)
	to := baseTime.Add(90 * time.Second)
	summary := newAggregator(store).Summarize(context.Background(), &from, &to)

	assert.Equal(t, int64(1), summary.Default.TotalRequests)
	assert.Equal(t, 20.00, summary.Default.TotalAmount)
}

func TestSummarizeOpenBoundsEqualsInfiniteRange(t *testing.T) {
	store := &stubStore{records: []payments.PaymentRecord{
		record(payments.ProcessorTypeDefault, 10.00, baseTime),
		record(payments.ProcessorTypeFallback, 20.00, baseTime.Add(time.Hour)),
	}}
	agg := newAggregator(store)

	farPast := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	farFuture := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

	open := agg.Summarize(context.Background(), nil, nil)
	explicit := agg.Summarize(context.Background(), &farPast, &farFuture)

	assert.Equal(t, explicit, open)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	store := &stubStore{records: []payments.PaymentRecord{
		record(payments.ProcessorTypeDefault, 12.34, baseTime),
		record(payments.ProcessorTypeFallback, 56.78, baseTime.Add(time.Second)),
	}}
	agg := newAggregator(store)

	first := agg.Summarize(context.Background(), nil, nil)
	second := agg.Summarize(context.Background(), nil, nil)

	assert.Equal(t, first, second)
}

func TestSummarizeDegradesToEmptyOnStoreFailure(t *testing.T) {
	store := &stubStore{err: errors.New("store unreachable")}

	summary := newAggregator(store).Summarize(context.Background(), nil, nil)

	assert.Equal(t, int64(0), summary.Default.TotalRequests)
	assert.Equal(t, 0.0, summary.Default.TotalAmount)
	assert.Equal(t, int64(0), summary.Fallback.TotalRequests)
	assert.Equal(t, 0.0, summary.Fallback.TotalAmount)
	// Rates are still reported so the caller can tell the buckets apart.
	assert.Equal(t, 0.05, summary.Default.FeeRate)
	assert.Equal(t, 0.15, summary.Fallback.FeeRate)
}

func TestRoundToCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.004, 1.00},
		{1.006, 1.01},
		{0.125, 0.13}, // exact half rounds up
		{150.0, 150.0},
		{99.999, 100.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, payments.RoundToCents(tc.in), "RoundToCents(%v)", tc.in)
	}
}
