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

const reorderAnalyticsKey = "reorder:analytics"

// ReorderEchoHandler serves the reorder API surface: rules, trigger
// evaluation and the order approval workflow.
type ReorderEchoHandler struct {
	logger    *xlogger.Logger
	rules     *usecase.RulesUseCase
	triggers  *usecase.TriggerUseCase
	orders    *usecase.OrderUseCase
	analytics *usecase.AnalyticsUseCase
	cache     icache.BytesCache
	rl        *ratelimit.Limiter
}

func NewReorderEchoHandler(
	logger *xlogger.Logger,
	rules *usecase.RulesUseCase,
	triggers *usecase.TriggerUseCase,
	orders *usecase.OrderUseCase,
	analytics *usecase.AnalyticsUseCase,
) *ReorderEchoHandler {
	metrics.Register()
	return &ReorderEchoHandler{
		logger:    logger,
		rules:     rules,
		triggers:  triggers,
		orders:    orders,
		analytics: analytics,
		rl:        ratelimit.New(),
	}
}

// SetCache injects the response byte cache.
func (h *ReorderEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *ReorderEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/reorder")
	g.POST("/rules", h.CreateRule)
	g.GET("/rules", h.ListRules)
	g.GET("/rules/:rule_id", h.GetRule)
	g.PUT("/rules/:rule_id", h.UpdateRule)
	g.POST("/check-triggers", h.CheckTriggers)
	g.POST("/trigger", h.ManualTrigger)
	g.GET("/orders", h.ListOrders)
	g.GET("/orders/:order_id", h.GetOrder)
	g.POST("/orders/:order_id/approve", h.ApproveOrder)
	g.POST("/orders/:order_id/reject", h.RejectOrder)
	g.GET("/analytics", h.Analytics)
}

func (h *ReorderEchoHandler) CreateRule(c echo.Context) error {
	req := &models.CreateRuleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := h.rules.Create(c.Request().Context(), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("rule_create").Inc()
		h.logger.Error("rule create error", xlogger.String("product_id", req.ProductID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.CreatedResponse(c, toRuleDTO(r))
}

func (h *ReorderEchoHandler) ListRules(c echo.Context) error {
	rs, err := h.rules.List(c.Request().Context())
	if err != nil {
		h.logger.Error("rule list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.ListResponse(c, toRuleDTOs(rs), int64(len(rs)))
}

func (h *ReorderEchoHandler) GetRule(c echo.Context) error {
	r, err := h.rules.Get(c.Request().Context(), c.Param("rule_id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.SuccessResponse(c, toRuleDTO(r))
}

func (h *ReorderEchoHandler) UpdateRule(c echo.Context) error {
	req := &models.UpdateRuleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := h.rules.Update(c.Request().Context(), c.Param("rule_id"), req)
	if err != nil {
		if err != models.ErrRuleNotFound {
			h.logger.Error("rule update error", xlogger.String("rule_id", c.Param("rule_id")), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.SuccessResponse(c, toRuleDTO(r))
}

func (h *ReorderEchoHandler) CheckTriggers(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("check_triggers").Observe(time.Since(start).Seconds()) }()

	req := &models.CheckTriggersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	created, err := h.triggers.CheckTriggers(c.Request().Context(), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("check_triggers").Inc()
		h.logger.Error("check triggers error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"triggered_orders": toOrderDTOs(created),
		"orders_created":   len(created),
	})
}

func (h *ReorderEchoHandler) ManualTrigger(c echo.Context) error {
	req := &models.ManualTriggerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	o, err := h.triggers.ManualTrigger(c.Request().Context(), req)
	if err != nil {
		if err != models.ErrRuleNotFound {
			h.logger.Error("manual trigger error", xlogger.String("product_id", req.ProductID), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.CreatedResponse(c, toOrderDTO(o))
}

func (h *ReorderEchoHandler) ListOrders(c echo.Context) error {
	status := c.QueryParam("status")
	os, err := h.orders.List(c.Request().Context(), status)
	if err != nil {
		h.logger.Error("order list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	if since := xhttp.ParseTimeDefault(c.QueryParam("since"), time.Time{}); !since.IsZero() {
		kept := os[:0]
		for _, o := range os {
			if !o.CreatedAt.Before(since) {
				kept = append(kept, o)
			}
		}
		os = kept
	}
	return xhttp.ListResponse(c, toOrderDTOs(os), int64(len(os)))
}

func (h *ReorderEchoHandler) GetOrder(c echo.Context) error {
	o, err := h.orders.Get(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.SuccessResponse(c, toOrderDTO(o))
}

func (h *ReorderEchoHandler) ApproveOrder(c echo.Context) error {
	req := &models.ApproveOrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	o, err := h.orders.Approve(c.Request().Context(), c.Param("order_id"), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("order_approve").Inc()
		h.logger.Error("order approve error", xlogger.String("order_id", c.Param("order_id")), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.SuccessResponse(c, toOrderDTO(o))
}

func (h *ReorderEchoHandler) RejectOrder(c echo.Context) error {
	req := &models.RejectOrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	o, err := h.orders.Reject(c.Request().Context(), c.Param("order_id"), req)
	if err != nil {
		metrics.APIErrors.WithLabelValues("order_reject").Inc()
		h.logger.Error("order reject error", xlogger.String("order_id", c.Param("order_id")), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	h.invalidateAnalytics()
	return xhttp.SuccessResponse(c, toOrderDTO(o))
}

func (h *ReorderEchoHandler) Analytics(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("reorder_analytics").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":ranalytics", 5, 2) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(reorderAnalyticsKey); err != nil {
			h.logger.Warn("analytics cache get error", xlogger.Error(err))
		} else if ok {
			return c.JSONBlob(http.StatusOK, b)
		}
	}

	res, err := h.analytics.Reorder(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues("reorder_analytics").Inc()
		h.logger.Error("reorder analytics error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}

	if h.cache != nil {
		if b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: res}); err == nil {
			if err := h.cache.SetBytes(reorderAnalyticsKey, b, 30*time.Second); err != nil {
				h.logger.Warn("analytics cache set error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ReorderEchoHandler) invalidateAnalytics() {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(reorderAnalyticsKey); err != nil {
		h.logger.Warn("analytics cache invalidate error", xlogger.Error(err))
	}
}
