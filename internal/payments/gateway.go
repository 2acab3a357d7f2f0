package payments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Outcome is the normalized result of a single processor call. It is never
// persisted; the router consumes it immediately.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeUnavailable means the processor explicitly declined the payment
	// (HTTP 422). Not a failure, just drives failover.
	OutcomeUnavailable
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

type ProcessorHealth struct {
	Failing         bool  `json:"failing"`
	MinResponseTime int64 `json:"minResponseTime"`
}

// Processors expect millisecond-precision UTC timestamps.
const wireTimeLayout = "2006-01-02T15:04:05.000Z"

type processorPayment struct {
	CorrelationId string  `json:"correlationId"`
	Amount        float64 `json:"amount"`
	RequestedAt   string  `json:"requestedAt"`
}

// ProcessorGateway turns a payment into an outbound call against one of the
// two processors and normalizes whatever comes back. It holds no state beyond
// the injected client and never persists or queues anything.
type ProcessorGateway struct {
	httpClient     *http.Client
	baseURLs       map[ProcessorType]string
	logger         *slog.Logger
	paymentTimeout time.Duration
	healthTimeout  time.Duration
}

func NewProcessorGateway(
	httpClient *http.Client,
	defaultURL, fallbackURL string,
	paymentTimeout, healthTimeout time.Duration,
	logger *slog.Logger,
) *ProcessorGateway {
	return &ProcessorGateway{
		httpClient: httpClient,
		baseURLs: map[ProcessorType]string{
			ProcessorTypeDefault:  defaultURL,
			ProcessorTypeFallback: fallbackURL,
		},
		logger:         logger,
		paymentTimeout: paymentTimeout,
		healthTimeout:  healthTimeout,
	}
}

var gatewayTracer = otel.Tracer("processor-gateway")

// Call posts the payment to the named processor. The payment timeout has to
// tolerate a slow fallback path on the processor side, so it is much longer
// than the health probe timeout.
func (g *ProcessorGateway) Call(ctx context.Context, processor ProcessorType, p PaymentRequest) Outcome {
	ctx, cancel := context.WithTimeout(ctx, g.paymentTimeout)
	defer cancel()

	ctx, span := gatewayTracer.Start(ctx, "processor-call", trace.WithAttributes(
		attribute.String("processor", string(processor)),
		attribute.String("payment.correlation_id", p.CorrelationId),
		attribute.Float64("payment.amount", p.Amount),
	))
	defer span.End()

	body, err := json.Marshal(processorPayment{
		CorrelationId: p.CorrelationId,
		Amount:        p.Amount,
		RequestedAt:   p.RequestedAt.UTC().Format(wireTimeLayout),
	})
	if err != nil {
		span.RecordError(err)
		return OutcomeFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURLs[processor]+"/payments", bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return OutcomeFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if resp != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
	if err != nil {
		span.RecordError(err)
		g.logger.Warn("processor call failed", "processor", processor, "error", err)
		return OutcomeFailed
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusOK:
		return OutcomeSuccess
	case http.StatusUnprocessableEntity:
		return OutcomeUnavailable
	default:
		g.logger.Warn("processor returned unexpected status", "processor", processor, "status", resp.StatusCode)
		return OutcomeFailed
	}
}

// CheckHealth probes the processor liveness endpoint. Only the health monitor
// calls this; routing never does.
func (g *ProcessorGateway) CheckHealth(ctx context.Context, processor ProcessorType) (ProcessorHealth, error) {
	ctx, cancel := context.WithTimeout(ctx, g.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURLs[processor]+"/payments/service-health", nil)
	if err != nil {
		return ProcessorHealth{}, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return ProcessorHealth{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ProcessorHealth{}, fmt.Errorf("health probe returned status %d", resp.StatusCode)
	}

	var health ProcessorHealth
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return ProcessorHealth{}, fmt.Errorf("decoding health response: %w", err)
	}
	return health, nil
}
