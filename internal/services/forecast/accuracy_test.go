package forecast

import (
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func reconciledHistory(scores []float64) []*models.Forecast {
	history := make([]*models.Forecast, len(scores))
	for i, s := range scores {
		history[i] = &models.Forecast{
			Model:         models.ModelMovingAverageWithTrend,
			Reconciled:    true,
			AccuracyScore: s,
		}
	}
	return history
}

func TestReconcile(t *testing.T) {
	tr := NewTracker()
	at := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	f := &models.Forecast{ProductID: "P-1", PredictedDemand: 100}
	m := tr.Reconcile(f, 90, at)

	if m.ForecastError != 10 {
		t.Fatalf("forecast error = %v, want 10", m.ForecastError)
	}
	if m.PercentageError != 11.11 {
		t.Fatalf("percentage error = %v, want 11.11", m.PercentageError)
	}
	if m.AccuracyScore != 88.89 {
		t.Fatalf("accuracy = %v, want 88.89", m.AccuracyScore)
	}

	if !f.Reconciled {
		t.Fatalf("forecast not marked reconciled")
	}
	if f.ActualDemand != 90 || f.AccuracyScore != 88.89 {
		t.Fatalf("forecast fields not updated: %+v", f)
	}
	if !f.AccuracyUpdated.Equal(at) {
		t.Fatalf("accuracy updated = %v, want %v", f.AccuracyUpdated, at)
	}
}

func TestReconcileZeroActual(t *testing.T) {
	tr := NewTracker()

	// Division is floored at actual=1; a wild miss bottoms out at zero.
	f := &models.Forecast{PredictedDemand: 5}
	m := tr.Reconcile(f, 0, time.Now())
	if m.PercentageError != 500 {
		t.Fatalf("percentage error = %v, want 500", m.PercentageError)
	}
	if m.AccuracyScore != 0 {
		t.Fatalf("accuracy = %v, want 0", m.AccuracyScore)
	}
}

func TestTrend(t *testing.T) {
	tr := NewTracker()

	cases := []struct {
		name   string
		scores []float64
		want   string
	}{
		{"empty", nil, TrendInsufficientData},
		{"single", []float64{80}, TrendInsufficientData},
		{"improving", []float64{60, 60, 60, 60, 60, 80, 80, 80, 80, 80}, TrendImproving},
		{"declining", []float64{80, 80, 80, 80, 80, 60, 60, 60, 60, 60}, TrendDeclining},
		{"within band", []float64{80, 80, 80, 80, 80, 82, 82, 82, 82, 82}, TrendFlat},
		{"short improving", []float64{50, 90, 90}, TrendImproving},
		{"old history ignored", []float64{10, 10, 10, 10, 10, 60, 60, 60, 60, 60, 80, 80, 80, 80, 80}, TrendImproving},
	}
	for _, tc := range cases {
		if got := tr.Trend(reconciledHistory(tc.scores)); got != tc.want {
			t.Fatalf("%s: trend = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestTrendIgnoresUnreconciled(t *testing.T) {
	tr := NewTracker()

	history := reconciledHistory([]float64{80})
	history = append(history, &models.Forecast{AccuracyScore: 10}) // not reconciled
	if got := tr.Trend(history); got != TrendInsufficientData {
		t.Fatalf("trend = %s, want %s with one reconciled forecast", got, TrendInsufficientData)
	}
}

func TestBestModel(t *testing.T) {
	tr := NewTracker()

	if got := tr.BestModel(nil); got != NoModelData {
		t.Fatalf("empty history: best model = %s, want %s", got, NoModelData)
	}

	history := []*models.Forecast{
		{Model: "moving_average_with_trend", Reconciled: true, AccuracyScore: 70},
		{Model: "moving_average_with_trend", Reconciled: true, AccuracyScore: 80},
		{Model: "naive", Reconciled: true, AccuracyScore: 90},
		{Model: "naive", Reconciled: false, AccuracyScore: 5},
	}
	if got := tr.BestModel(history); got != "naive" {
		t.Fatalf("best model = %s, want naive", got)
	}
}

func TestSeasonalityCount(t *testing.T) {
	tr := NewTracker()

	history := []*models.Forecast{
		{SeasonalFactor: 1.0},
		{SeasonalFactor: 1.05},
		{SeasonalFactor: 1.2},
		{SeasonalFactor: 0.85},
	}
	if got := tr.SeasonalityCount(history); got != 2 {
		t.Fatalf("seasonality count = %d, want 2", got)
	}
}
