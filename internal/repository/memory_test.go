package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

func TestMemorySeriesStore(t *testing.T) {
	s := NewMemorySeriesStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := &models.HistoricalRecord{
			ProductID: "P-1",
			Date:      base.AddDate(0, 0, i),
			Demand:    float64(10 + i),
		}
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// Same day again: last write wins.
	if err := s.Append(ctx, &models.HistoricalRecord{ProductID: "P-1", Date: base, Demand: 99}); err != nil {
		t.Fatalf("append: %v", err)
	}

	series, err := s.GetSeries(ctx, "P-1")
	if err != nil {
		t.Fatalf("get series: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("series length = %d, want 3", len(series))
	}
	if series[0].Demand != 99 {
		t.Fatalf("day 0 demand = %v, want overwrite 99", series[0].Demand)
	}
	for i := 1; i < len(series); i++ {
		if !series[i].Date.After(series[i-1].Date) {
			t.Fatalf("series not ascending at %d", i)
		}
	}

	if got, _ := s.GetSeries(ctx, "P-unknown"); len(got) != 0 {
		t.Fatalf("unknown product returned %d records", len(got))
	}
}

func TestMemorySeriesStoreRetention(t *testing.T) {
	s := NewMemorySeriesStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < seriesRetentionDays+10; i++ {
		rec := &models.HistoricalRecord{ProductID: "P-1", Date: base.AddDate(0, 0, i), Demand: 1}
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	series, _ := s.GetSeries(ctx, "P-1")
	if len(series) != seriesRetentionDays {
		t.Fatalf("series length = %d, want %d", len(series), seriesRetentionDays)
	}
	if want := base.AddDate(0, 0, 10); !series[0].Date.Equal(want) {
		t.Fatalf("oldest kept day = %v, want %v", series[0].Date, want)
	}
}

func TestMemoryForecastStore(t *testing.T) {
	s := NewMemoryForecastStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "P-1"); !errors.Is(err, models.ErrForecastNotFound) {
		t.Fatalf("missing forecast: err = %v", err)
	}

	if err := s.Save(ctx, &models.Forecast{ProductID: "P-1", PredictedDemand: 100}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, &models.Forecast{ProductID: "P-1", PredictedDemand: 120}); err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := s.Get(ctx, "P-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.PredictedDemand != 120 {
		t.Fatalf("predicted demand = %v, want superseding 120", f.PredictedDemand)
	}

	// Mutating a returned forecast must not leak into the store.
	f.PredictedDemand = 1
	again, _ := s.Get(ctx, "P-1")
	if again.PredictedDemand != 120 {
		t.Fatalf("store aliased a returned forecast")
	}
}

func TestMemoryRuleRegistryOrder(t *testing.T) {
	s := NewMemoryRuleRegistry()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		r := &models.ReorderRule{ID: fmt.Sprintf("rule-%d", i), ProductID: "P-1"}
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	// Re-saving must not change position.
	if err := s.Save(ctx, &models.ReorderRule{ID: "rule-0", ProductID: "P-2"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	rules, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rules) != 5 {
		t.Fatalf("list length = %d, want 5", len(rules))
	}
	for i, r := range rules {
		if want := fmt.Sprintf("rule-%d", i); r.ID != want {
			t.Fatalf("position %d: id = %s, want %s", i, r.ID, want)
		}
	}

	byProduct, _ := s.ListByProduct(ctx, "P-2")
	if len(byProduct) != 1 || byProduct[0].ID != "rule-0" {
		t.Fatalf("list by product = %+v", byProduct)
	}

	if _, err := s.Get(ctx, "rule-404"); !errors.Is(err, models.ErrRuleNotFound) {
		t.Fatalf("missing rule: err = %v", err)
	}
}

func TestMemoryOrderStore(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		o := &models.Order{ID: fmt.Sprintf("order-%d", i), Status: models.OrderPendingApproval}
		if err := s.Save(ctx, o); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	orders, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 3 || orders[0].ID != "order-2" {
		t.Fatalf("list not newest first: %+v", orders)
	}

	if _, err := s.Get(ctx, "order-404"); !errors.Is(err, models.ErrOrderNotFound) {
		t.Fatalf("missing order: err = %v", err)
	}

	o, _ := s.Get(ctx, "order-1")
	o.Status = models.OrderApproved
	if err := s.Save(ctx, o); err != nil {
		t.Fatalf("save: %v", err)
	}
	updated, _ := s.Get(ctx, "order-1")
	if updated.Status != models.OrderApproved {
		t.Fatalf("status update lost")
	}
}
