package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is liveness only.
func Health(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
