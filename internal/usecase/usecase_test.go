package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/repository"
	svcforecast "StockPilot/internal/services/forecast"
	svcreorder "StockPilot/internal/services/reorder"
)

var testNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

type nopMetrics struct{}

func (nopMetrics) RecordEventEmitted(string, string) {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordStockLevel(string, float64)  {}
func (nopMetrics) RecordLatency(string, float64)     {}

type captureSink struct {
	events []*models.Event
}

func (s *captureSink) Emit(_ context.Context, ev *models.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSink) Close() error { return nil }

func seedSeries(t *testing.T, uc *SeriesUseCase, productID string, days int, demand float64) {
	t.Helper()
	for i := 0; i < days; i++ {
		date := models.Day(testNow).AddDate(0, 0, i-days)
		_, err := uc.Append(context.Background(), &models.AppendHistoricalRequest{
			ProductID: productID,
			Date:      date.Format(DateLayout),
			Demand:    demand,
		})
		if err != nil {
			t.Fatalf("seed series: %v", err)
		}
	}
}

func TestSeriesAppendRejectsBadDate(t *testing.T) {
	uc := NewSeriesUseCase(repository.NewMemorySeriesStore())
	_, err := uc.Append(context.Background(), &models.AppendHistoricalRequest{ProductID: "P-1", Date: "03/04/2026"})
	if !errors.Is(err, models.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func TestForecastGenerate(t *testing.T) {
	store := repository.NewMemorySeriesStore()
	series := NewSeriesUseCase(store)
	series.now = func() time.Time { return testNow }
	forecasts := repository.NewMemoryForecastStore()
	sink := &captureSink{}

	uc := NewForecastUseCase(store, forecasts, svcforecast.NewEngine(), sink, nopMetrics{}, nil)
	uc.now = func() time.Time { return testNow }

	seedSeries(t, series, "P-1", 14, 10)

	f, err := uc.Generate(context.Background(), "P-1", 30)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if f.ProductID != "P-1" || f.PeriodDays != 30 {
		t.Fatalf("forecast = %+v", f)
	}

	stored, err := uc.Get(context.Background(), "P-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.PredictedDemand != f.PredictedDemand {
		t.Fatalf("stored forecast differs from returned one")
	}

	if len(sink.events) != 1 || sink.events[0].Trigger != models.EventForecastUpdated {
		t.Fatalf("events = %+v, want one forecast_updated", sink.events)
	}

	// Insufficient history surfaces the sentinel untouched.
	if _, err := uc.Generate(context.Background(), "P-thin", 30); !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("thin product: err = %v, want ErrInsufficientData", err)
	}
}

func TestReconcile(t *testing.T) {
	forecasts := repository.NewMemoryForecastStore()
	uc := NewReconcileUseCase(forecasts, svcforecast.NewTracker(), nil)
	uc.now = func() time.Time { return testNow }

	req := &models.ForecastAccuracyRequest{ActualDemand: 90, PeriodEnd: "2026-03-04"}
	if _, err := uc.Reconcile(context.Background(), "P-404", req); !errors.Is(err, models.ErrForecastNotFound) {
		t.Fatalf("missing forecast: err = %v", err)
	}

	if err := forecasts.Save(context.Background(), &models.Forecast{ProductID: "P-1", PredictedDemand: 100}); err != nil {
		t.Fatalf("save: %v", err)
	}

	m, err := uc.Reconcile(context.Background(), "P-1", req)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if m.AccuracyScore != 88.89 {
		t.Fatalf("accuracy = %v, want 88.89", m.AccuracyScore)
	}

	stored, _ := forecasts.Get(context.Background(), "P-1")
	if !stored.Reconciled || stored.ActualDemand != 90 {
		t.Fatalf("reconciliation not persisted: %+v", stored)
	}

	bad := &models.ForecastAccuracyRequest{ActualDemand: 90, PeriodEnd: "not-a-date"}
	if _, err := uc.Reconcile(context.Background(), "P-1", bad); !errors.Is(err, models.ErrInvalidDate) {
		t.Fatalf("bad date: err = %v", err)
	}
}

func newTriggerFixture(t *testing.T) (*TriggerUseCase, *RulesUseCase, *repository.MemoryOrderStore, *captureSink) {
	t.Helper()
	rules := repository.NewMemoryRuleRegistry()
	orders := repository.NewMemoryOrderStore()
	forecasts := repository.NewMemoryForecastStore()
	sink := &captureSink{}

	rulesUC := NewRulesUseCase(rules, nil)
	rulesUC.now = func() time.Time { return testNow }

	uc := NewTriggerUseCase(
		rules, orders, forecasts,
		svcreorder.NewEvaluator(), svcreorder.NewFactory(),
		sink, NewSupplierDispatcher(nil, nil), nopMetrics{}, nil,
	)
	uc.now = func() time.Time { return testNow }
	return uc, rulesUC, orders, sink
}

func TestCheckTriggersCreatesOrders(t *testing.T) {
	uc, rulesUC, orders, sink := newTriggerFixture(t)
	ctx := context.Background()

	rule, err := rulesUC.Create(ctx, &models.CreateRuleRequest{
		ProductID:         "P-1",
		TriggerType:       "threshold",
		TriggerValue:      10,
		ReorderQuantity:   5,
		SupplierID:        "SUP-1",
		UnitCost:          20,
		ApprovalThreshold: 1000,
		LeadTimeDays:      7,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	created, err := uc.CheckTriggers(ctx, &models.CheckTriggersRequest{
		Inventory: map[string]models.StockLevel{"P-1": {CurrentStock: 8}},
	})
	if err != nil {
		t.Fatalf("check triggers: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("orders created = %d, want 1", len(created))
	}

	o := created[0]
	// 5 * 20 = 100 stays under the 1000 threshold: auto-approved and sent.
	if o.Status != models.OrderSentToSupplier {
		t.Fatalf("status = %s, want %s", o.Status, models.OrderSentToSupplier)
	}
	if !o.EstimatedCost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("cost = %s, want 100", o.EstimatedCost)
	}

	stored, err := orders.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.Status != models.OrderSentToSupplier {
		t.Fatalf("persisted status = %s", stored.Status)
	}

	// The fired rule's stamp must be persisted.
	updated, _ := rulesUC.Get(ctx, rule.ID)
	if updated.TriggerCount != 1 || !updated.LastTriggered.Equal(testNow.UTC()) {
		t.Fatalf("rule stamp not persisted: %+v", updated)
	}

	if len(sink.events) != 1 || sink.events[0].Trigger != models.EventReorderGenerated {
		t.Fatalf("events = %+v, want one reorder_generated", sink.events)
	}

	// Ample stock: nothing fires.
	created, err = uc.CheckTriggers(ctx, &models.CheckTriggersRequest{
		Inventory: map[string]models.StockLevel{"P-1": {CurrentStock: 500}},
	})
	if err != nil {
		t.Fatalf("check triggers: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("orders created = %d, want 0", len(created))
	}
}

func TestCheckTriggersPendingApproval(t *testing.T) {
	uc, rulesUC, _, _ := newTriggerFixture(t)
	ctx := context.Background()

	_, err := rulesUC.Create(ctx, &models.CreateRuleRequest{
		ProductID:         "P-1",
		TriggerType:       "threshold",
		TriggerValue:      10,
		ReorderQuantity:   100,
		UnitCost:          20, // 100 * 20 = 2000 > 1000
		ApprovalThreshold: 1000,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}

	created, err := uc.CheckTriggers(ctx, &models.CheckTriggersRequest{
		Inventory: map[string]models.StockLevel{"P-1": {CurrentStock: 3}},
	})
	if err != nil {
		t.Fatalf("check triggers: %v", err)
	}
	if len(created) != 1 || created[0].Status != models.OrderPendingApproval {
		t.Fatalf("created = %+v, want one pending order", created)
	}
}

func TestManualTrigger(t *testing.T) {
	uc, rulesUC, _, _ := newTriggerFixture(t)
	ctx := context.Background()

	if _, err := uc.ManualTrigger(ctx, &models.ManualTriggerRequest{ProductID: "P-1", Quantity: 5}); !errors.Is(err, models.ErrRuleNotFound) {
		t.Fatalf("no rules: err = %v", err)
	}

	first, err := rulesUC.Create(ctx, &models.CreateRuleRequest{
		ProductID: "P-1", TriggerType: "threshold", TriggerValue: 10,
		ReorderQuantity: 5, UnitCost: 20, ApprovalThreshold: 1000,
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if _, err := rulesUC.Create(ctx, &models.CreateRuleRequest{
		ProductID: "P-1", TriggerType: "time_based", TriggerValue: 30,
		ReorderQuantity: 50, UnitCost: 20, ApprovalThreshold: 1000,
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	o, err := uc.ManualTrigger(ctx, &models.ManualTriggerRequest{ProductID: "P-1", Quantity: 5})
	if err != nil {
		t.Fatalf("manual trigger: %v", err)
	}
	if o.RuleID != first.ID {
		t.Fatalf("rule id = %s, want first active rule %s", o.RuleID, first.ID)
	}
	if o.TriggerReason != "manual_trigger" {
		t.Fatalf("reason = %q", o.TriggerReason)
	}

	// Inactive first rule falls through to the next active one.
	inactive := "inactive"
	if _, err := rulesUC.Update(ctx, first.ID, &models.UpdateRuleRequest{Status: &inactive}); err != nil {
		t.Fatalf("update rule: %v", err)
	}
	o, err = uc.ManualTrigger(ctx, &models.ManualTriggerRequest{ProductID: "P-1", Quantity: 5})
	if err != nil {
		t.Fatalf("manual trigger: %v", err)
	}
	if o.RuleID == first.ID {
		t.Fatalf("inactive rule used for manual trigger")
	}
}

func TestApproveAndRejectOrders(t *testing.T) {
	uc, rulesUC, orderStore, _ := newTriggerFixture(t)
	ctx := context.Background()

	if _, err := rulesUC.Create(ctx, &models.CreateRuleRequest{
		ProductID: "P-1", TriggerType: "threshold", TriggerValue: 10,
		ReorderQuantity: 100, UnitCost: 20, ApprovalThreshold: 1000,
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	created, err := uc.CheckTriggers(ctx, &models.CheckTriggersRequest{
		Inventory: map[string]models.StockLevel{"P-1": {CurrentStock: 3}},
	})
	if err != nil || len(created) != 1 {
		t.Fatalf("fixture order: %v (%d)", err, len(created))
	}
	pending := created[0]

	sink := &captureSink{}
	orders := NewOrderUseCase(orderStore, svcreorder.NewFactory(), sink, NewSupplierDispatcher(nil, nil), nil)
	orders.now = func() time.Time { return testNow }

	if _, err := orders.Approve(ctx, "order-404", &models.ApproveOrderRequest{ApprovedBy: "system"}); !errors.Is(err, models.ErrOrderNotFound) {
		t.Fatalf("missing order: err = %v", err)
	}

	o, err := orders.Approve(ctx, pending.ID, &models.ApproveOrderRequest{ApprovedBy: "ops@acme", Notes: "ok"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if o.Status != models.OrderSentToSupplier {
		t.Fatalf("status = %s, want %s after approval", o.Status, models.OrderSentToSupplier)
	}
	if len(sink.events) != 1 || sink.events[0].Trigger != models.EventOrderApproved {
		t.Fatalf("events = %+v", sink.events)
	}

	if _, err := orders.Approve(ctx, pending.ID, &models.ApproveOrderRequest{ApprovedBy: "ops@acme"}); !errors.Is(err, models.ErrNotPendingApproval) {
		t.Fatalf("double approve: err = %v", err)
	}
	if _, err := orders.Reject(ctx, pending.ID, &models.RejectOrderRequest{RejectedBy: "ops@acme"}); !errors.Is(err, models.ErrNotPendingApproval) {
		t.Fatalf("reject sent order: err = %v", err)
	}

	sent, err := orders.List(ctx, string(models.OrderSentToSupplier))
	if err != nil || len(sent) != 1 {
		t.Fatalf("list sent: %v (%d)", err, len(sent))
	}
	if none, _ := orders.List(ctx, string(models.OrderRejected)); len(none) != 0 {
		t.Fatalf("rejected list should be empty")
	}
}

func TestAnalytics(t *testing.T) {
	forecasts := repository.NewMemoryForecastStore()
	rules := repository.NewMemoryRuleRegistry()
	orderStore := repository.NewMemoryOrderStore()
	ctx := context.Background()

	uc := NewAnalyticsUseCase(forecasts, rules, orderStore, svcforecast.NewTracker())
	uc.now = func() time.Time { return testNow }

	if err := forecasts.Save(ctx, &models.Forecast{
		ProductID: "P-1", Model: models.ModelMovingAverageWithTrend,
		ValidUntil: testNow.AddDate(0, 0, 10), SeasonalFactor: 1.3,
		Reconciled: true, AccuracyScore: 90, AccuracyUpdated: testNow,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := forecasts.Save(ctx, &models.Forecast{
		ProductID: "P-2", Model: models.ModelMovingAverageWithTrend,
		ValidUntil: testNow.AddDate(0, 0, -1), SeasonalFactor: 1.0,
		Reconciled: true, AccuracyScore: 80, AccuracyUpdated: testNow.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	fa, err := uc.Forecasting(ctx)
	if err != nil {
		t.Fatalf("forecasting analytics: %v", err)
	}
	if fa.TotalForecasts != 2 || fa.ActiveForecasts != 1 {
		t.Fatalf("counts = %+v", fa)
	}
	if fa.AverageAccuracy != 85 {
		t.Fatalf("average accuracy = %v, want 85", fa.AverageAccuracy)
	}
	if fa.MostAccurateModel != models.ModelMovingAverageWithTrend {
		t.Fatalf("model = %s", fa.MostAccurateModel)
	}
	if fa.SeasonalPatternsDetected != 1 {
		t.Fatalf("seasonal patterns = %d, want 1", fa.SeasonalPatternsDetected)
	}

	if err := rules.Save(ctx, &models.ReorderRule{ID: "r1", ProductID: "P-1", Status: models.RuleActive, TriggerCount: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := rules.Save(ctx, &models.ReorderRule{ID: "r2", ProductID: "P-2", Status: models.RuleInactive, TriggerCount: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := orderStore.Save(ctx, &models.Order{
		ID: "o1", Status: models.OrderPendingApproval,
		EstimatedCost: decimal.NewFromInt(250), CreatedAt: testNow,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ra, err := uc.Reorder(ctx)
	if err != nil {
		t.Fatalf("reorder analytics: %v", err)
	}
	if ra.TotalRules != 2 || ra.ActiveRules != 1 {
		t.Fatalf("rule counts = %+v", ra)
	}
	if ra.PendingApproval != 1 || ra.PendingOrderValue != 250 {
		t.Fatalf("pending = %+v", ra)
	}
	if ra.OrdersThisMonth != 1 {
		t.Fatalf("orders this month = %d", ra.OrdersThisMonth)
	}
	if ra.MostTriggeredProduct == nil || ra.MostTriggeredProduct.ProductID != "P-2" {
		t.Fatalf("most triggered = %+v", ra.MostTriggeredProduct)
	}
}
