package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	domrepo "StockPilot/internal/domain/repository"
)

// HealthHandler reports process liveness and storage reachability.
type HealthHandler struct {
	series domrepo.SeriesStore
	start  time.Time
}

func NewHealthHandler(series domrepo.SeriesStore) *HealthHandler {
	return &HealthHandler{series: series, start: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
	e.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c echo.Context) error {
	storage := "ok"
	status := "healthy"
	if err := h.series.Health(c.Request().Context()); err != nil {
		storage = err.Error()
		status = "degraded"
	}

	// Load balancers read the status code, so this bypasses the usual
	// envelope that always answers 200.
	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":         status,
		"storage":        storage,
		"uptime_seconds": int(time.Since(h.start).Seconds()),
	})
}
