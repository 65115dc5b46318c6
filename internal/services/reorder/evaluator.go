package reorder

import (
	"fmt"
	"math"
	"time"

	"StockPilot/internal/domain/models"
	domsvc "StockPilot/internal/domain/service"
)

// Evaluator tests reorder rules against an inventory snapshot. Rules are
// evaluated in input order, each at most once per call, and fire
// independently; multiple rules for one product may all fire in one pass.
type Evaluator struct {
	seasonalMonths     map[time.Month]bool
	seasonalMultiplier float64
}

type EvaluatorOption func(*Evaluator)

// WithSeasonalMonths sets the months that trigger quantity uplift.
func WithSeasonalMonths(months []time.Month) EvaluatorOption {
	return func(e *Evaluator) {
		if len(months) == 0 {
			return
		}
		e.seasonalMonths = make(map[time.Month]bool, len(months))
		for _, m := range months {
			e.seasonalMonths[m] = true
		}
	}
}

// WithSeasonalMultiplier sets the holiday-season quantity multiplier.
func WithSeasonalMultiplier(f float64) EvaluatorOption {
	return func(e *Evaluator) {
		if f > 0 {
			e.seasonalMultiplier = f
		}
	}
}

func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		seasonalMonths: map[time.Month]bool{
			time.November: true,
			time.December: true,
			time.January:  true,
		},
		seasonalMultiplier: 1.5,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the triggers that fire for this snapshot. Firing mutates
// the rule's LastTriggered and TriggerCount; the caller persists the rules.
// Callers must serialize concurrent evaluations for the same product.
func (e *Evaluator) Evaluate(rules []*models.ReorderRule, snapshot models.InventorySnapshot, now time.Time) []models.FiredTrigger {
	fired := make([]models.FiredTrigger, 0)
	for _, rule := range rules {
		if rule.Status != models.RuleActive {
			continue
		}

		reason, ok := e.test(rule, snapshot, now)
		if !ok {
			continue
		}

		qty := rule.ReorderQuantity
		if rule.SeasonalAdjustment && e.seasonalMonths[now.Month()] {
			qty = int(math.Round(float64(qty) * e.seasonalMultiplier))
		}

		rule.LastTriggered = now
		rule.TriggerCount++
		fired = append(fired, models.FiredTrigger{Rule: rule, Quantity: qty, Reason: reason})
	}
	return fired
}

func (e *Evaluator) test(rule *models.ReorderRule, snapshot models.InventorySnapshot, now time.Time) (string, bool) {
	stock := snapshot[rule.ProductID]

	switch rule.Kind {
	case models.TriggerThreshold:
		if stock.CurrentStock <= rule.TriggerValue {
			return fmt.Sprintf("Stock level (%g) below threshold (%g)", stock.CurrentStock, rule.TriggerValue), true
		}

	case models.TriggerTimeBased:
		if rule.LastTriggered.IsZero() {
			return "First time trigger", true
		}
		days := int(now.Sub(rule.LastTriggered).Hours() / 24)
		if float64(days) >= rule.TriggerValue {
			return fmt.Sprintf("Time-based trigger: %d days since last order", days), true
		}

	case models.TriggerDemandForecast:
		// No live forecast means no fire.
		if stock.PredictedDemand == nil {
			return "", false
		}
		if stock.CurrentStock < *stock.PredictedDemand {
			return fmt.Sprintf("Current stock (%g) below predicted demand (%g)", stock.CurrentStock, *stock.PredictedDemand), true
		}
	}
	return "", false
}

var _ domsvc.TriggerEvaluator = (*Evaluator)(nil)
