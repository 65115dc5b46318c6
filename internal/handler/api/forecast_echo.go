package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "StockPilot/internal/domain/models"
	icache "StockPilot/internal/service/cache"
	"StockPilot/internal/service/metrics"
	"StockPilot/internal/service/ratelimit"
	"StockPilot/internal/usecase"
	xhttp "StockPilot/pkg/http"
	xlogger "StockPilot/pkg/logger"
)

const forecastAnalyticsKey = "forecasting:analytics"

// ForecastEchoHandler serves the forecasting API surface.
type ForecastEchoHandler struct {
	logger    *xlogger.Logger
	series    *usecase.SeriesUseCase
	forecasts *usecase.ForecastUseCase
	reconcile *usecase.ReconcileUseCase
	analytics *usecase.AnalyticsUseCase
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
}

func NewForecastEchoHandler(
	logger *xlogger.Logger,
	series *usecase.SeriesUseCase,
	forecasts *usecase.ForecastUseCase,
	reconcile *usecase.ReconcileUseCase,
	analytics *usecase.AnalyticsUseCase,
) *ForecastEchoHandler {
	metrics.Register()
	return &ForecastEchoHandler{
		logger:    logger,
		series:    series,
		forecasts: forecasts,
		reconcile: reconcile,
		analytics: analytics,
		rl:        ratelimit.New(),
	}
}

// SetCache injects the response byte cache.
func (h *ForecastEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/forecasting")
	g.POST("/forecasts", h.Create)
	g.GET("/forecasts", h.List)
	g.GET("/forecasts/:product_id", h.Get)
	g.POST("/historical", h.AppendHistorical)
	g.GET("/historical/:product_id", h.GetHistorical)
	g.POST("/accuracy/:product_id", h.Reconcile)
	g.GET("/analytics", h.Analytics)
}

func (h *ForecastEchoHandler) Create(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("forecast_create").Observe(time.Since(start).Seconds()) }()

	req := &models.CreateForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	f, err := h.forecasts.Generate(c.Request().Context(), req.ProductID, req.HorizonDays)
	if err != nil {
		metrics.APIErrors.WithLabelValues("forecast_create").Inc()
		h.logger.Error("forecast create error", xlogger.String("product_id", req.ProductID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.CreatedResponse(c, toForecastDTO(f))
}

func (h *ForecastEchoHandler) List(c echo.Context) error {
	fs, err := h.forecasts.List(c.Request().Context())
	if err != nil {
		h.logger.Error("forecast list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.ListResponse(c, toForecastDTOs(fs), int64(len(fs)))
}

func (h *ForecastEchoHandler) Get(c echo.Context) error {
	productID := c.Param("product_id")
	f, err := h.forecasts.Get(c.Request().Context(), productID)
	if err != nil {
		if err != models.ErrForecastNotFound {
			h.logger.Error("forecast get error", xlogger.String("product_id", productID), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.SuccessResponse(c, toForecastDTO(f))
}

func (h *ForecastEchoHandler) AppendHistorical(c echo.Context) error {
	req := &models.AppendHistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.series.Append(c.Request().Context(), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("historical_append").Inc()
		h.logger.Error("historical append error", xlogger.String("product_id", req.ProductID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.CreatedResponse(c, toRecordDTO(rec))
}

func (h *ForecastEchoHandler) GetHistorical(c echo.Context) error {
	productID := c.Param("product_id")
	series, err := h.series.GetSeries(c.Request().Context(), productID)
	if err != nil {
		h.logger.Error("historical get error", xlogger.String("product_id", productID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	if days := xhttp.ParseIntDefault(c.QueryParam("days"), 0); days > 0 {
		cutoff := models.Day(time.Now().UTC()).AddDate(0, 0, -days)
		kept := series[:0]
		for _, rec := range series {
			if !rec.Date.Before(cutoff) {
				kept = append(kept, rec)
			}
		}
		series = kept
	}
	return xhttp.ListResponse(c, toRecordDTOs(series), int64(len(series)))
}

func (h *ForecastEchoHandler) Reconcile(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("forecast_reconcile").Observe(time.Since(start).Seconds()) }()

	productID := c.Param("product_id")
	req := &models.ForecastAccuracyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	m, err := h.reconcile.Reconcile(c.Request().Context(), productID, req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("forecast_reconcile").Inc()
		if err != models.ErrForecastNotFound {
			h.logger.Error("reconcile error", xlogger.String("product_id", productID), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.SuccessResponse(c, toAccuracyDTO(m))
}

func (h *ForecastEchoHandler) Analytics(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("forecast_analytics").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":fanalytics", 5, 2) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(forecastAnalyticsKey); err != nil {
			h.logger.Warn("analytics cache get error", xlogger.Error(err))
		} else if ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	res, err := h.analytics.Forecasting(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues("forecast_analytics").Inc()
		h.logger.Error("forecasting analytics error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}

	if h.cache != nil {
		if b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: res}); err == nil {
			if err := h.cache.SetBytes(forecastAnalyticsKey, b, 30*time.Second); err != nil {
				h.logger.Warn("analytics cache set error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) invalidateAnalytics() {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(forecastAnalyticsKey); err != nil {
		h.logger.Warn("analytics cache invalidate error", xlogger.Error(err))
	}
}
