package forecast

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

// fixedNow is a Wednesday so weekday-dependent output stays stable.
var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func dailySeries(productID string, now time.Time, demands []float64) []models.HistoricalRecord {
	base := models.Day(now)
	series := make([]models.HistoricalRecord, len(demands))
	for i, d := range demands {
		series[i] = models.HistoricalRecord{
			ProductID: productID,
			Date:      base.AddDate(0, 0, i-len(demands)),
			Demand:    d,
		}
	}
	return series
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestGenerateInsufficientData(t *testing.T) {
	e := NewEngine()

	series := dailySeries("P-1", fixedNow, repeat(10, 6))
	if _, err := e.Generate(context.Background(), "P-1", series, 30, fixedNow); err != models.ErrInsufficientData {
		t.Fatalf("6 records: want ErrInsufficientData, got %v", err)
	}

	series = dailySeries("P-1", fixedNow, repeat(10, 7))
	if _, err := e.Generate(context.Background(), "P-1", series, 30, fixedNow); err != nil {
		t.Fatalf("7 records: unexpected error %v", err)
	}
}

func TestGenerateFlatSeries(t *testing.T) {
	e := NewEngine()
	series := dailySeries("P-1", fixedNow, repeat(10, 14))

	f, err := e.Generate(context.Background(), "P-1", series, 7, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Trend != models.TrendStable {
		t.Fatalf("trend = %s, want %s", f.Trend, models.TrendStable)
	}
	if f.SeasonalFactor != 1.0 {
		t.Fatalf("seasonal factor = %v, want 1.0", f.SeasonalFactor)
	}
	if f.Confidence != 88 {
		t.Fatalf("confidence = %d, want 88", f.Confidence)
	}
	if f.Model != models.ModelMovingAverageWithTrend {
		t.Fatalf("model = %s", f.Model)
	}

	// Wed 10, Thu 10, Fri 10, Sat 8, Sun 8, Mon 10, Tue 10.
	if f.PredictedDemand != 66 {
		t.Fatalf("predicted demand = %v, want 66", f.PredictedDemand)
	}
	for _, day := range f.Breakdown {
		want := 10.0
		if wd := day.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			want = 8.0
		}
		if day.Demand != want {
			t.Fatalf("%s (%s): demand = %v, want %v", day.Date.Format("2006-01-02"), day.Date.Weekday(), day.Demand, want)
		}
	}
}

func TestGenerateTrendDirection(t *testing.T) {
	e := NewEngine()

	rising := make([]float64, 14)
	falling := make([]float64, 14)
	for i := range rising {
		rising[i] = float64(i + 1)
		falling[i] = float64(14 - i)
	}

	f, err := e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, rising), 7, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Trend != models.TrendIncreasing {
		t.Fatalf("rising series: trend = %s, want %s", f.Trend, models.TrendIncreasing)
	}

	f, err = e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, falling), 7, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Trend != models.TrendDecreasing {
		t.Fatalf("falling series: trend = %s, want %s", f.Trend, models.TrendDecreasing)
	}
}

func TestGenerateShortSeriesHasNoTrend(t *testing.T) {
	e := NewEngine()

	// 10 records is enough to forecast but not to estimate a trend.
	demands := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	f, err := e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, demands), 7, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Trend != models.TrendStable {
		t.Fatalf("trend = %s, want %s below 14 records", f.Trend, models.TrendStable)
	}
	if f.SeasonalFactor != 1.0 {
		t.Fatalf("seasonal factor = %v, want neutral below 14 records", f.SeasonalFactor)
	}
}

func TestGenerateClampsNegativeDemand(t *testing.T) {
	e := NewEngine()

	falling := make([]float64, 14)
	for i := range falling {
		falling[i] = float64(14 - i)
	}

	f, err := e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, falling), 30, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, day := range f.Breakdown {
		if day.Demand < 0 {
			t.Fatalf("negative daily demand %v on %s", day.Demand, day.Date.Format("2006-01-02"))
		}
	}
}

func TestGenerateBreakdownSumsToTotal(t *testing.T) {
	e := NewEngine()
	demands := []float64{12, 9, 15, 11, 8, 14, 10, 13, 9, 16, 12, 10, 11, 15}

	f, err := e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, demands), 30, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Breakdown) != 30 {
		t.Fatalf("breakdown length = %d, want 30", len(f.Breakdown))
	}

	var sum float64
	for _, day := range f.Breakdown {
		sum += day.Demand
	}
	if math.Abs(sum-f.PredictedDemand) > 0.005 {
		t.Fatalf("breakdown sum %v != predicted demand %v", sum, f.PredictedDemand)
	}
}

func TestGenerateConfidence(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		records int
		want    int
	}{
		{7, 74},
		{14, 88},
		{20, 95},
		{40, 95}, // windowed to 30, capped at 95
	}
	for _, tc := range cases {
		f, err := e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, repeat(10, tc.records)), 7, fixedNow)
		if err != nil {
			t.Fatalf("%d records: unexpected error: %v", tc.records, err)
		}
		if f.Confidence != tc.want {
			t.Fatalf("%d records: confidence = %d, want %d", tc.records, f.Confidence, tc.want)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	e := NewEngine()
	demands := []float64{12, 9, 15, 11, 8, 14, 10, 13, 9, 16, 12, 10, 11, 15}
	series := dailySeries("P-1", fixedNow, demands)

	a, err := e.Generate(context.Background(), "P-1", series, 14, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.Generate(context.Background(), "P-1", series, 14, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs produced different forecasts:\n%+v\n%+v", a, b)
	}
}

func TestGenerateValidity(t *testing.T) {
	e := NewEngine()

	f, err := e.Generate(context.Background(), "P-1", dailySeries("P-1", fixedNow, repeat(10, 14)), 30, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := fixedNow.AddDate(0, 0, 30); !f.ValidUntil.Equal(want) {
		t.Fatalf("valid until = %v, want %v", f.ValidUntil, want)
	}
	if !f.Active(fixedNow.AddDate(0, 0, 29)) {
		t.Fatalf("forecast should still be active inside the horizon")
	}
	if f.Active(fixedNow.AddDate(0, 0, 31)) {
		t.Fatalf("forecast should be expired past the horizon")
	}
}
