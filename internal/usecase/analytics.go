package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	domsvc "StockPilot/internal/domain/service"
)

// ForecastingAnalytics summarizes forecast quality across products.
type ForecastingAnalytics struct {
	TotalForecasts           int     `json:"total_forecasts"`
	ActiveForecasts          int     `json:"active_forecasts"`
	AverageAccuracy          float64 `json:"average_accuracy"`
	AccuracyTrend            string  `json:"forecast_accuracy_trend"`
	MostAccurateModel        string  `json:"most_accurate_model"`
	SeasonalPatternsDetected int     `json:"seasonal_patterns_detected"`
}

// ProductTriggerCount is the most-triggered-product analytics entry.
type ProductTriggerCount struct {
	ProductID     string `json:"product_id"`
	TotalTriggers int    `json:"total_triggers"`
}

// ReorderAnalytics summarizes rule and order activity.
type ReorderAnalytics struct {
	TotalRules           int                  `json:"total_rules"`
	ActiveRules          int                  `json:"active_rules"`
	TotalOrders          int                  `json:"total_orders"`
	PendingApproval      int                  `json:"pending_approval"`
	OrdersThisMonth      int                  `json:"orders_this_month"`
	PendingOrderValue    float64              `json:"pending_order_value"`
	MostTriggeredProduct *ProductTriggerCount `json:"most_triggered_product"`
}

// AnalyticsUseCase answers the read-only aggregate queries.
type AnalyticsUseCase struct {
	forecasts domrepo.ForecastStore
	rules     domrepo.RuleRegistry
	orders    domrepo.OrderStore
	tracker   domsvc.AccuracyTracker
	now       func() time.Time
}

func NewAnalyticsUseCase(
	forecasts domrepo.ForecastStore,
	rules domrepo.RuleRegistry,
	orders domrepo.OrderStore,
	tracker domsvc.AccuracyTracker,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		forecasts: forecasts,
		rules:     rules,
		orders:    orders,
		tracker:   tracker,
		now:       time.Now,
	}
}

func (uc *AnalyticsUseCase) Forecasting(ctx context.Context) (*ForecastingAnalytics, error) {
	all, err := uc.forecasts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	now := uc.now().UTC()

	out := &ForecastingAnalytics{TotalForecasts: len(all)}

	var accSum float64
	var accCount int
	for _, f := range all {
		if f.Active(now) {
			out.ActiveForecasts++
		}
		if f.Reconciled {
			accSum += f.AccuracyScore
			accCount++
		}
	}
	if accCount > 0 {
		out.AverageAccuracy = round2(accSum / float64(accCount))
	}

	// Trend wants reconciliation order, oldest first.
	byUpdate := make([]*models.Forecast, len(all))
	copy(byUpdate, all)
	sort.SliceStable(byUpdate, func(i, j int) bool {
		return byUpdate[i].AccuracyUpdated.Before(byUpdate[j].AccuracyUpdated)
	})
	out.AccuracyTrend = uc.tracker.Trend(byUpdate)
	out.MostAccurateModel = uc.tracker.BestModel(all)
	out.SeasonalPatternsDetected = uc.tracker.SeasonalityCount(all)
	return out, nil
}

func (uc *AnalyticsUseCase) Reorder(ctx context.Context) (*ReorderAnalytics, error) {
	rules, err := uc.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	orders, err := uc.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	now := uc.now().UTC()

	out := &ReorderAnalytics{TotalRules: len(rules), TotalOrders: len(orders)}

	triggersByProduct := make(map[string]int)
	productOrder := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Status == models.RuleActive {
			out.ActiveRules++
		}
		if _, seen := triggersByProduct[r.ProductID]; !seen {
			productOrder = append(productOrder, r.ProductID)
		}
		triggersByProduct[r.ProductID] += r.TriggerCount
	}
	for _, pid := range productOrder {
		n := triggersByProduct[pid]
		if out.MostTriggeredProduct == nil || n > out.MostTriggeredProduct.TotalTriggers {
			out.MostTriggeredProduct = &ProductTriggerCount{ProductID: pid, TotalTriggers: n}
		}
	}

	pendingValue := decimal.Zero
	for _, o := range orders {
		if o.Status == models.OrderPendingApproval {
			out.PendingApproval++
			pendingValue = pendingValue.Add(o.EstimatedCost)
		}
		if o.CreatedAt.Year() == now.Year() && o.CreatedAt.Month() == now.Month() {
			out.OrdersThisMonth++
		}
	}
	out.PendingOrderValue = pendingValue.InexactFloat64()
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
