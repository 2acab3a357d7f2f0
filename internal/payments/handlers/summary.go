package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"payflow/internal/payments"
)

type Summarizer interface {
	Summarize(ctx context.Context, from, to *time.Time) payments.Summary
}

type SummaryHandler struct {
	aggregator Summarizer
}

func NewSummaryHandler(aggregator Summarizer) *SummaryHandler {
	return &SummaryHandler{aggregator: aggregator}
}

// Handle answers the point-in-time summary query. Unparseable bounds are
// treated as open-ended, never rejected.
func (h *SummaryHandler) Handle(c echo.Context) error {
	from := payments.ParseTimeBound(c.QueryParam("from"))
	to := payments.ParseTimeBound(c.QueryParam("to"))

	summary := h.aggregator.Summarize(c.Request().Context(), from, to)
	return c.JSON(http.StatusOK, summary)
}
