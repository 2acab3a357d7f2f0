package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"payflow/internal/payments"
	"payflow/pkg/metrics"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, p payments.PaymentRequest) error
}

type PaymentHandler struct {
	queue Enqueuer
}

type paymentRequest struct {
	Amount        float64 `json:"amount"`
	CorrelationId string  `json:"correlationId"`
}

func NewPaymentHandler(queue Enqueuer) *PaymentHandler {
	return &PaymentHandler{queue: queue}
}

var paymentTracer = otel.Tracer("payment-handler")

// Handle stamps requestedAt and enqueues. 400 for malformed input, 503 when
// the queue backend is out of memory, 500 for anything else.
func (h *PaymentHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := paymentTracer.Start(ctx, "payment-handler", trace.WithAttributes(
		attribute.String("handler", "payment"),
	))
	defer span.End()

	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		span.RecordError(err)
		return c.NoContent(http.StatusBadRequest)
	}

	if req.CorrelationId == "" || !payments.ValidAmount(req.Amount) {
		return c.NoContent(http.StatusBadRequest)
	}

	payment := payments.PaymentRequest{
		Amount:        req.Amount,
		CorrelationId: req.CorrelationId,
		RequestedAt:   time.Now().UTC(),
	}

	span.SetAttributes(
		attribute.Float64("payment.amount", req.Amount),
		attribute.String("payment.correlation_id", req.CorrelationId),
	)

	if err := h.queue.Enqueue(ctx, payment); err != nil {
		span.RecordError(err)
		c.Logger().Errorf("error while enqueueing the payment: %v", err)
		if isOutOfMemory(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusInternalServerError)
	}

	metrics.PaymentsEnqueued.Inc()
	return c.NoContent(http.StatusCreated)
}

// Redis signals memory pressure in the error text ("OOM command not allowed...").
func isOutOfMemory(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "OOM") || strings.Contains(strings.ToLower(msg), "memory")
}
