package service

import (
	"context"
	"time"

	"StockPilot/internal/domain/models"
)

// Forecaster produces a multi-day demand forecast from a product's history.
// now fixes the weekday/month reference so output is deterministic for a
// given series and horizon.
type Forecaster interface {
	Generate(ctx context.Context, productID string, series []models.HistoricalRecord, horizonDays int, now time.Time) (*models.Forecast, error)
}

// AccuracyTracker reconciles forecasts against observed demand and answers
// aggregate accuracy queries over reconciled history.
type AccuracyTracker interface {
	Reconcile(f *models.Forecast, actualDemand float64, at time.Time) models.AccuracyMetrics
	Trend(history []*models.Forecast) string
	BestModel(history []*models.Forecast) string
	SeasonalityCount(history []*models.Forecast) int
}

// TriggerEvaluator decides which reorder rules fire for one inventory
// snapshot. Firing stamps LastTriggered and increments TriggerCount on the
// rule passed in; the caller persists.
type TriggerEvaluator interface {
	Evaluate(rules []*models.ReorderRule, snapshot models.InventorySnapshot, now time.Time) []models.FiredTrigger
}

// OrderFactory converts fired triggers into purchase orders and governs the
// order status machine.
type OrderFactory interface {
	Create(rule *models.ReorderRule, quantity int, reason string, now time.Time) *models.Order
	Approve(o *models.Order, approvedBy, notes string, now time.Time) error
	Reject(o *models.Order, rejectedBy, reason string, now time.Time) error
	MarkSent(o *models.Order, now time.Time) error
}
