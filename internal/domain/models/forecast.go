package models

import "time"

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// ModelMovingAverageWithTrend is the identifier of the only model the engine
// currently ships. Accuracy analytics group by this field, so it stays on the
// forecast rather than being implied.
const ModelMovingAverageWithTrend = "moving_average_with_trend"

// DailyForecast is one day of the per-day breakdown.
type DailyForecast struct {
	Date   time.Time
	Demand float64
}

// Forecast is a multi-day demand prediction for one product. One live
// forecast exists per product; creating a new one supersedes the prior.
// After creation only the accuracy tracker mutates it, attaching the
// actual-vs-predicted fields.
type Forecast struct {
	ProductID       string
	PeriodDays      int
	PredictedDemand float64
	Confidence      int // 0..100, capped at 95 by the engine
	Trend           TrendDirection
	SeasonalFactor  float64
	Breakdown       []DailyForecast
	Model           string
	CreatedAt       time.Time
	ValidUntil      time.Time

	// Reconciliation fields, zero until actuals arrive.
	Reconciled      bool
	ActualDemand    float64
	ForecastError   float64
	PercentageError float64
	AccuracyScore   float64
	AccuracyUpdated time.Time
}

// Active reports whether the forecast's validity window covers now.
func (f *Forecast) Active(now time.Time) bool {
	return f.ValidUntil.After(now)
}

// AccuracyMetrics is the result of reconciling a forecast against observed demand.
type AccuracyMetrics struct {
	PredictedDemand float64
	ActualDemand    float64
	ForecastError   float64
	PercentageError float64
	AccuracyScore   float64
}
