package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// RegisterRoutes registers the health route on the Echo instance.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

// Health godoc
// @Summary Liveness check
// @Produce  json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
