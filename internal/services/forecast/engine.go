package forecast

import (
	"context"
	"math"
	"time"

	"StockPilot/internal/domain/models"
	domsvc "StockPilot/internal/domain/service"
)

// Engine implements moving-average-with-trend demand forecasting. Pure
// computation: no I/O, no randomness. Persistence and notification belong to
// the caller.
type Engine struct {
	window        int     // most recent records considered
	minRecords    int     // below this the series is unusable
	trendMin      int     // records needed before a trend is estimated
	weekendFactor float64 // demand multiplier for Saturday/Sunday offsets
}

type EngineOption func(*Engine)

// WithWindow sets the working window size in records.
func WithWindow(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.window = n
		}
	}
}

// WithMinRecords sets the minimum series length.
func WithMinRecords(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.minRecords = n
		}
	}
}

// WithWeekendFactor sets the Saturday/Sunday demand multiplier.
func WithWeekendFactor(f float64) EngineOption {
	return func(e *Engine) {
		if f > 0 {
			e.weekendFactor = f
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		window:        30,
		minRecords:    7,
		trendMin:      14,
		weekendFactor: 0.8,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate produces a horizon-day forecast from the product's series. The
// series must be ascending by date; only the last 30 records are used.
// Fails with models.ErrInsufficientData below 7 records.
func (e *Engine) Generate(_ context.Context, productID string, series []models.HistoricalRecord, horizonDays int, now time.Time) (*models.Forecast, error) {
	window := series
	if len(window) > e.window {
		window = window[len(window)-e.window:]
	}
	if len(window) < e.minRecords {
		return nil, models.ErrInsufficientData
	}

	demands := make([]float64, len(window))
	for i, rec := range window {
		demands[i] = rec.Demand
	}

	baseline := mean(demands[len(demands)-7:])

	// Daily trend from the last two 7-day blocks.
	var trend float64
	if len(demands) >= e.trendMin {
		recent := mean(demands[len(demands)-7:])
		older := mean(demands[len(demands)-14 : len(demands)-7])
		trend = (recent - older) / 7
	}

	seasonal := e.seasonalFactor(window, now.Weekday())

	breakdown := make([]models.DailyForecast, 0, horizonDays)
	var total float64
	day := models.Day(now)
	for d := 0; d < horizonDays; d++ {
		date := day.AddDate(0, 0, d)
		daily := baseline + trend*float64(d)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			daily *= e.weekendFactor
		}
		daily *= seasonal
		if daily < 0 {
			daily = 0
		}
		daily = round2(daily)
		total += daily
		breakdown = append(breakdown, models.DailyForecast{Date: date, Demand: daily})
	}

	// More history raises confidence, capped at 95.
	confidence := 60 + 2*len(demands)
	if confidence > 95 {
		confidence = 95
	}

	return &models.Forecast{
		ProductID:       productID,
		PeriodDays:      horizonDays,
		PredictedDemand: round2(total),
		Confidence:      confidence,
		Trend:           classifyTrend(trend),
		SeasonalFactor:  round2(seasonal),
		Breakdown:       breakdown,
		Model:           models.ModelMovingAverageWithTrend,
		CreatedAt:       now,
		ValidUntil:      now.AddDate(0, 0, horizonDays),
	}, nil
}

// seasonalFactor compares the reference weekday's mean demand over the last
// 14 records against the 14-record overall mean. The overall mean is floored
// at 1 so thin series cannot blow the ratio up.
func (e *Engine) seasonalFactor(window []models.HistoricalRecord, weekday time.Weekday) float64 {
	if len(window) < e.trendMin {
		return 1.0
	}
	last14 := window[len(window)-14:]

	var daySum, dayCount, overall float64
	for _, rec := range last14 {
		overall += rec.Demand
		if rec.Date.Weekday() == weekday {
			daySum += rec.Demand
			dayCount++
		}
	}
	if dayCount == 0 {
		return 1.0
	}
	overallMean := overall / 14
	if overallMean < 1 {
		overallMean = 1
	}
	return (daySum / dayCount) / overallMean
}

func classifyTrend(trend float64) models.TrendDirection {
	switch {
	case trend > 0.1:
		return models.TrendIncreasing
	case trend < -0.1:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ domsvc.Forecaster = (*Engine)(nil)
