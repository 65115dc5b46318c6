package api

import (
	"github.com/labstack/echo/v4"
)

// Router registers the full API surface on one Echo instance.
type Router struct {
	forecast *ForecastEchoHandler
	reorder  *ReorderEchoHandler
	health   *HealthHandler
}

func NewRouter(forecast *ForecastEchoHandler, reorder *ReorderEchoHandler, health *HealthHandler) *Router {
	return &Router{forecast: forecast, reorder: reorder, health: health}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.forecast.RegisterRoutes(e)
	r.reorder.RegisterRoutes(e)
	r.health.RegisterRoutes(e)
}
