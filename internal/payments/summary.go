package payments

import (
	"context"
	"log/slog"
	"math"
	"time"
)

type ProcessorSummary struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalFee      float64 `json:"totalFee"`
	FeeRate       float64 `json:"feeRate"`
}

type Summary struct {
	Default  ProcessorSummary `json:"default"`
	Fallback ProcessorSummary `json:"fallback"`
}

// RoundToCents rounds half-up to the smallest currency unit.
func RoundToCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// SummaryAggregator folds the accounting store's time range into per-processor
// totals. Sums run at full precision; rounding happens once at the boundary.
type SummaryAggregator struct {
	store       AccountingStore
	logger      *slog.Logger
	readTimeout time.Duration
}

func NewSummaryAggregator(store AccountingStore, readTimeout time.Duration, logger *slog.Logger) *SummaryAggregator {
	return &SummaryAggregator{
		store:       store,
		logger:      logger,
		readTimeout: readTimeout,
	}
}

// Summarize reports how much was processed, by which processor, in [from, to].
// Nil bounds are open-ended. Error-labeled records never moved money and are
// left out of both buckets. The report is best-effort: a store read that
// times out or fails degrades to empty buckets instead of surfacing an error.
func (a *SummaryAggregator) Summarize(ctx context.Context, from, to *time.Time) Summary {
	readCtx, cancel := context.WithTimeout(ctx, a.readTimeout)
	defer cancel()

	records, err := a.store.Range(readCtx, from, to)
	if err != nil {
		a.logger.Warn("accounting store read failed, returning empty summary", "error", err)
		records = nil
	}

	var (
		defaultCount, fallbackCount   int64
		defaultAmount, fallbackAmount float64
	)

	for _, r := range records {
		switch r.Processor {
		case ProcessorTypeDefault:
			defaultCount++
			defaultAmount += r.Amount
		case ProcessorTypeFallback:
			fallbackCount++
			fallbackAmount += r.Amount
		}
	}

	return Summary{
		Default:  newProcessorSummary(defaultCount, defaultAmount, DefaultFeeRate),
		Fallback: newProcessorSummary(fallbackCount, fallbackAmount, FallbackFeeRate),
	}
}

func newProcessorSummary(count int64, amount, feeRate float64) ProcessorSummary {
	return ProcessorSummary{
		TotalRequests: count,
		TotalAmount:   RoundToCents(amount),
		TotalFee:      RoundToCents(amount * feeRate),
		FeeRate:       feeRate,
	}
}
