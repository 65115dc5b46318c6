package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	domsvc "StockPilot/internal/domain/service"
	applogger "StockPilot/pkg/logger"
)

// TriggerUseCase runs the reorder trigger evaluation pass and the manual
// trigger path.
type TriggerUseCase struct {
	rules      domrepo.RuleRegistry
	orders     domrepo.OrderStore
	forecasts  domrepo.ForecastStore
	evaluator  domsvc.TriggerEvaluator
	factory    domsvc.OrderFactory
	sink       domrepo.EventSink
	dispatcher *SupplierDispatcher
	metrics    domrepo.Metrics
	l          *applogger.Logger
	now        func() time.Time
}

func NewTriggerUseCase(
	rules domrepo.RuleRegistry,
	orders domrepo.OrderStore,
	forecasts domrepo.ForecastStore,
	evaluator domsvc.TriggerEvaluator,
	factory domsvc.OrderFactory,
	sink domrepo.EventSink,
	dispatcher *SupplierDispatcher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *TriggerUseCase {
	return &TriggerUseCase{
		rules:      rules,
		orders:     orders,
		forecasts:  forecasts,
		evaluator:  evaluator,
		factory:    factory,
		sink:       sink,
		dispatcher: dispatcher,
		metrics:    metrics,
		l:          l,
		now:        time.Now,
	}
}

// CheckTriggers evaluates every rule against the submitted inventory snapshot
// and converts fired triggers into orders. Rules are evaluated in creation
// order; each fires at most once per call.
func (uc *TriggerUseCase) CheckTriggers(ctx context.Context, req *models.CheckTriggersRequest) ([]*models.Order, error) {
	start := time.Now()
	now := uc.now().UTC()

	snapshot := make(models.InventorySnapshot, len(req.Inventory))
	for pid, level := range req.Inventory {
		pd := level.PredictedDemand
		if pd == nil {
			if f, err := uc.forecasts.Get(ctx, pid); err == nil && f.Active(now) {
				v := f.PredictedDemand
				pd = &v
			}
		}
		snapshot[pid] = models.ProductStock{CurrentStock: level.CurrentStock, PredictedDemand: pd}
		if uc.metrics != nil {
			uc.metrics.RecordStockLevel(pid, level.CurrentStock)
		}
	}

	rules, err := uc.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	fired := uc.evaluator.Evaluate(rules, snapshot, now)
	created := make([]*models.Order, 0, len(fired))
	for _, ft := range fired {
		if err := uc.rules.Save(ctx, ft.Rule); err != nil {
			return created, fmt.Errorf("save rule %s: %w", ft.Rule.ID, err)
		}
		o, err := uc.createOrder(ctx, ft.Rule, ft.Quantity, ft.Reason, now)
		if err != nil {
			return created, err
		}
		created = append(created, o)
	}

	if uc.metrics != nil {
		uc.metrics.RecordLatency("trigger_check_seconds", time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Info("trigger check complete",
			applogger.Int("rules", len(rules)),
			applogger.Int("products", len(snapshot)),
			applogger.Int("orders_created", len(created)),
		)
	}
	return created, nil
}

// ManualTrigger creates an order from the product's first active rule in
// creation order, bypassing trigger conditions.
func (uc *TriggerUseCase) ManualTrigger(ctx context.Context, req *models.ManualTriggerRequest) (*models.Order, error) {
	rules, err := uc.rules.ListByProduct(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	var rule *models.ReorderRule
	for _, r := range rules {
		if r.Status == models.RuleActive {
			rule = r
			break
		}
	}
	if rule == nil {
		return nil, fmt.Errorf("no active rule for product %s: %w", req.ProductID, models.ErrRuleNotFound)
	}

	return uc.createOrder(ctx, rule, req.Quantity, "manual_trigger", uc.now().UTC())
}

// createOrder persists a new order, dispatches it when auto-approved and
// emits the reorder_generated event.
func (uc *TriggerUseCase) createOrder(ctx context.Context, rule *models.ReorderRule, qty int, reason string, now time.Time) (*models.Order, error) {
	o := uc.factory.Create(rule, qty, reason, now)

	if o.Status == models.OrderApproved {
		if err := uc.factory.MarkSent(o, now); err != nil {
			return nil, fmt.Errorf("mark order sent: %w", err)
		}
		if uc.dispatcher != nil {
			_ = uc.dispatcher.Dispatch(ctx, o)
		}
	}

	if err := uc.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	if err := uc.sink.Emit(ctx, models.NewOrderEvent(models.EventReorderGenerated, o)); err != nil {
		if uc.l != nil {
			uc.l.Warn("reorder event emit failed",
				applogger.String("order_id", o.ID),
				applogger.Error(err),
			)
		}
	}
	if uc.l != nil {
		uc.l.Info("reorder created",
			applogger.String("order_id", o.ID),
			applogger.String("product_id", o.ProductID),
			applogger.Int("quantity", o.Quantity),
			applogger.String("status", string(o.Status)),
			applogger.String("reason", reason),
		)
	}
	return o, nil
}
