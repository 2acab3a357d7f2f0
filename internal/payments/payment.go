package payments

import (
	"math"
	"time"
)

type ProcessorType string

const (
	ProcessorTypeDefault  ProcessorType = "default"
	ProcessorTypeFallback ProcessorType = "fallback"
	// ProcessorTypeError marks payments neither processor accepted. No money
	// moved; the attempt is still recorded for reconciliation.
	ProcessorTypeError ProcessorType = "error"
)

const (
	DefaultFeeRate  = 0.05
	FallbackFeeRate = 0.15
)

// PaymentRequest is one unit of incoming work. RequestedAt is stamped at
// ingress, never by the caller. RetryCount rides along on the wire but is
// not acted on yet.
type PaymentRequest struct {
	Amount        float64   `json:"amount"`
	CorrelationId string    `json:"correlationId"`
	RequestedAt   time.Time `json:"requestedAt"`
	RetryCount    int       `json:"retryCount"`
}

// PaymentRecord is the durable accounting entry, immutable once written.
type PaymentRecord struct {
	CorrelationId string
	Amount        float64
	RequestedAt   time.Time
	Processor     ProcessorType
}

func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
