package forecast

import (
	"math"
	"time"

	"StockPilot/internal/domain/models"
	domsvc "StockPilot/internal/domain/service"
)

// Accuracy trend classifications.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendFlat             = "stable"
	TrendInsufficientData = "insufficient_data"
	NoModelData           = "no_data"
)

// trendDeadBand is the +/- accuracy-point band inside which the trend is
// considered flat.
const trendDeadBand = 5.0

// Tracker reconciles forecasts against observed demand and aggregates
// accuracy across reconciled history for model-selection analytics.
type Tracker struct{}

func NewTracker() *Tracker { return &Tracker{} }

// Reconcile attaches actual-vs-predicted fields to the forecast in place and
// returns the computed metrics. Division is floored at actual=1 so a zero
// observation cannot blow the percentage up.
func (t *Tracker) Reconcile(f *models.Forecast, actualDemand float64, at time.Time) models.AccuracyMetrics {
	errAbs := math.Abs(f.PredictedDemand - actualDemand)
	pctErr := errAbs / math.Max(actualDemand, 1) * 100
	accuracy := math.Max(0, 100-pctErr)

	f.Reconciled = true
	f.ActualDemand = actualDemand
	f.ForecastError = errAbs
	f.PercentageError = round2(pctErr)
	f.AccuracyScore = round2(accuracy)
	f.AccuracyUpdated = at

	return models.AccuracyMetrics{
		PredictedDemand: f.PredictedDemand,
		ActualDemand:    actualDemand,
		ForecastError:   errAbs,
		PercentageError: round2(pctErr),
		AccuracyScore:   round2(accuracy),
	}
}

// Trend classifies accuracy over the last 10 reconciled forecasts by
// comparing the most-recent-5 average against the 5 before that.
func (t *Tracker) Trend(history []*models.Forecast) string {
	scores := reconciledScores(history)
	if len(scores) < 2 {
		return TrendInsufficientData
	}
	if len(scores) > 10 {
		scores = scores[len(scores)-10:]
	}

	split := len(scores) - 5
	if split < 1 {
		split = 1
	}
	older := mean(scores[:split])
	recent := mean(scores[split:])

	switch {
	case recent > older+trendDeadBand:
		return TrendImproving
	case recent < older-trendDeadBand:
		return TrendDeclining
	default:
		return TrendFlat
	}
}

// BestModel returns the model identifier with the highest mean accuracy
// across reconciled forecasts.
func (t *Tracker) BestModel(history []*models.Forecast) string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, f := range history {
		if !f.Reconciled {
			continue
		}
		sums[f.Model] += f.AccuracyScore
		counts[f.Model]++
	}
	if len(sums) == 0 {
		return NoModelData
	}

	best := ""
	bestAvg := math.Inf(-1)
	for model, sum := range sums {
		avg := sum / float64(counts[model])
		if avg > bestAvg || (avg == bestAvg && model < best) {
			best = model
			bestAvg = avg
		}
	}
	return best
}

// SeasonalityCount counts forecasts whose seasonal factor deviates from the
// neutral 1.0 by more than 0.1.
func (t *Tracker) SeasonalityCount(history []*models.Forecast) int {
	n := 0
	for _, f := range history {
		if math.Abs(f.SeasonalFactor-1.0) > 0.1 {
			n++
		}
	}
	return n
}

func reconciledScores(history []*models.Forecast) []float64 {
	scores := make([]float64, 0, len(history))
	for _, f := range history {
		if f.Reconciled {
			scores = append(scores, f.AccuracyScore)
		}
	}
	return scores
}

var _ domsvc.AccuracyTracker = (*Tracker)(nil)
