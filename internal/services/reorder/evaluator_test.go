package reorder

import (
	"strings"
	"testing"
	"time"

	"StockPilot/internal/domain/models"
)

var evalNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) // off-season month

func activeRule(kind models.TriggerKind, value float64) *models.ReorderRule {
	return &models.ReorderRule{
		ID:              "rule-1",
		ProductID:       "P-1",
		Kind:            kind,
		TriggerValue:    value,
		ReorderQuantity: 10,
		Status:          models.RuleActive,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestEvaluateThreshold(t *testing.T) {
	e := NewEvaluator()

	cases := []struct {
		stock float64
		fires bool
	}{
		{8, true},
		{10, true}, // boundary fires
		{11, false},
	}
	for _, tc := range cases {
		rule := activeRule(models.TriggerThreshold, 10)
		snapshot := models.InventorySnapshot{"P-1": {CurrentStock: tc.stock}}
		fired := e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)
		if (len(fired) == 1) != tc.fires {
			t.Fatalf("stock %v: fired = %d, want fires=%v", tc.stock, len(fired), tc.fires)
		}
	}

	rule := activeRule(models.TriggerThreshold, 10)
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 8}}
	fired := e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)
	if got := fired[0].Reason; got != "Stock level (8) below threshold (10)" {
		t.Fatalf("reason = %q", got)
	}
}

func TestEvaluateSkipsInactiveRules(t *testing.T) {
	e := NewEvaluator()

	rule := activeRule(models.TriggerThreshold, 10)
	rule.Status = models.RuleInactive
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 0}}
	if fired := e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow); len(fired) != 0 {
		t.Fatalf("inactive rule fired")
	}
	if rule.TriggerCount != 0 {
		t.Fatalf("inactive rule was stamped")
	}
}

func TestEvaluateTimeBased(t *testing.T) {
	e := NewEvaluator()
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 100}}

	rule := activeRule(models.TriggerTimeBased, 7)
	fired := e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)
	if len(fired) != 1 || fired[0].Reason != "First time trigger" {
		t.Fatalf("never-triggered rule: fired = %+v", fired)
	}

	rule = activeRule(models.TriggerTimeBased, 7)
	rule.LastTriggered = evalNow.AddDate(0, 0, -10)
	fired = e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)
	if len(fired) != 1 {
		t.Fatalf("overdue rule did not fire")
	}
	if !strings.Contains(fired[0].Reason, "10 days") {
		t.Fatalf("reason = %q, want elapsed days", fired[0].Reason)
	}

	rule = activeRule(models.TriggerTimeBased, 7)
	rule.LastTriggered = evalNow.AddDate(0, 0, -3)
	if fired = e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow); len(fired) != 0 {
		t.Fatalf("recently triggered rule fired after 3 of 7 days")
	}
}

func TestEvaluateDemandForecast(t *testing.T) {
	e := NewEvaluator()

	rule := activeRule(models.TriggerDemandForecast, 0)
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 5, PredictedDemand: floatPtr(20)}}
	fired := e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)
	if len(fired) != 1 {
		t.Fatalf("stock below predicted demand did not fire")
	}
	if got := fired[0].Reason; got != "Current stock (5) below predicted demand (20)" {
		t.Fatalf("reason = %q", got)
	}

	rule = activeRule(models.TriggerDemandForecast, 0)
	snapshot = models.InventorySnapshot{"P-1": {CurrentStock: 25, PredictedDemand: floatPtr(20)}}
	if fired = e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow); len(fired) != 0 {
		t.Fatalf("ample stock fired")
	}

	// No forecast, no fire, regardless of stock.
	rule = activeRule(models.TriggerDemandForecast, 0)
	snapshot = models.InventorySnapshot{"P-1": {CurrentStock: 0}}
	if fired = e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow); len(fired) != 0 {
		t.Fatalf("fired without a forecast")
	}
}

func TestEvaluateSeasonalAdjustment(t *testing.T) {
	e := NewEvaluator()
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 0}}
	december := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)

	rule := activeRule(models.TriggerThreshold, 10)
	rule.SeasonalAdjustment = true
	fired := e.Evaluate([]*models.ReorderRule{rule}, snapshot, december)
	if fired[0].Quantity != 15 {
		t.Fatalf("December quantity = %d, want 15", fired[0].Quantity)
	}

	rule = activeRule(models.TriggerThreshold, 10)
	rule.SeasonalAdjustment = true
	fired = e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)
	if fired[0].Quantity != 10 {
		t.Fatalf("June quantity = %d, want 10", fired[0].Quantity)
	}

	rule = activeRule(models.TriggerThreshold, 10)
	fired = e.Evaluate([]*models.ReorderRule{rule}, snapshot, december)
	if fired[0].Quantity != 10 {
		t.Fatalf("December quantity without adjustment = %d, want 10", fired[0].Quantity)
	}
}

func TestEvaluateStampsRule(t *testing.T) {
	e := NewEvaluator()

	rule := activeRule(models.TriggerThreshold, 10)
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 5}}
	e.Evaluate([]*models.ReorderRule{rule}, snapshot, evalNow)

	if !rule.LastTriggered.Equal(evalNow) {
		t.Fatalf("last triggered = %v, want %v", rule.LastTriggered, evalNow)
	}
	if rule.TriggerCount != 1 {
		t.Fatalf("trigger count = %d, want 1", rule.TriggerCount)
	}
}

func TestEvaluatePreservesInputOrder(t *testing.T) {
	e := NewEvaluator()

	a := activeRule(models.TriggerThreshold, 10)
	a.ID = "rule-a"
	b := activeRule(models.TriggerTimeBased, 7)
	b.ID = "rule-b"
	snapshot := models.InventorySnapshot{"P-1": {CurrentStock: 5}}

	fired := e.Evaluate([]*models.ReorderRule{a, b}, snapshot, evalNow)
	if len(fired) != 2 {
		t.Fatalf("fired = %d, want 2", len(fired))
	}
	if fired[0].Rule.ID != "rule-a" || fired[1].Rule.ID != "rule-b" {
		t.Fatalf("output order %s, %s does not match input", fired[0].Rule.ID, fired[1].Rule.ID)
	}
}
