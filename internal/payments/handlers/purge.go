package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Purger interface {
	Purge(ctx context.Context) error
}

// PurgeHandler clears the accounting store and the work queue. Administrative
// only, not safe to expose in production.
type PurgeHandler struct {
	store Purger
	queue Purger
}

func NewPurgeHandler(store, queue Purger) *PurgeHandler {
	return &PurgeHandler{store: store, queue: queue}
}

var purgeTracer = otel.Tracer("purge-handler")

func (h *PurgeHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := purgeTracer.Start(ctx, "purge-handler", trace.WithAttributes(
		attribute.String("handler", "purge"),
	))
	defer span.End()

	if err := h.store.Purge(ctx); err != nil {
		span.RecordError(err)
		c.Logger().Errorf("error purging accounting store: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	if err := h.queue.Purge(ctx); err != nil {
		span.RecordError(err)
		c.Logger().Errorf("error purging work queue: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}
