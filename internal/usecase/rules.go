package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	applogger "StockPilot/pkg/logger"
)

// RulesUseCase manages reorder rule configuration.
type RulesUseCase struct {
	rules domrepo.RuleRegistry
	l     *applogger.Logger
	now   func() time.Time
}

func NewRulesUseCase(rules domrepo.RuleRegistry, l *applogger.Logger) *RulesUseCase {
	return &RulesUseCase{rules: rules, l: l, now: time.Now}
}

func (uc *RulesUseCase) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.ReorderRule, error) {
	r := &models.ReorderRule{
		ID:                 uuid.NewString(),
		ProductID:          req.ProductID,
		Kind:               models.TriggerKind(req.TriggerType),
		TriggerValue:       req.TriggerValue,
		ReorderQuantity:    req.ReorderQuantity,
		SupplierID:         req.SupplierID,
		UnitCost:           decimal.NewFromFloat(req.UnitCost),
		ApprovalThreshold:  decimal.NewFromFloat(req.ApprovalThreshold),
		ApprovalRequired:   req.ApprovalRequired,
		LeadTimeDays:       req.LeadTimeDays,
		SeasonalAdjustment: req.SeasonalAdjustment,
		Status:             models.RuleActive,
		CreatedAt:          uc.now().UTC(),
	}
	if err := uc.rules.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rule: %w", err)
	}
	if uc.l != nil {
		uc.l.Info("reorder rule created",
			applogger.String("rule_id", r.ID),
			applogger.String("product_id", r.ProductID),
			applogger.String("trigger_type", string(r.Kind)),
		)
	}
	return r, nil
}

func (uc *RulesUseCase) Update(ctx context.Context, id string, req *models.UpdateRuleRequest) (*models.ReorderRule, error) {
	r, err := uc.rules.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TriggerType != nil {
		r.Kind = models.TriggerKind(*req.TriggerType)
	}
	if req.TriggerValue != nil {
		r.TriggerValue = *req.TriggerValue
	}
	if req.ReorderQuantity != nil {
		r.ReorderQuantity = *req.ReorderQuantity
	}
	if req.SupplierID != nil {
		r.SupplierID = *req.SupplierID
	}
	if req.UnitCost != nil {
		r.UnitCost = decimal.NewFromFloat(*req.UnitCost)
	}
	if req.ApprovalThreshold != nil {
		r.ApprovalThreshold = decimal.NewFromFloat(*req.ApprovalThreshold)
	}
	if req.ApprovalRequired != nil {
		r.ApprovalRequired = *req.ApprovalRequired
	}
	if req.LeadTimeDays != nil {
		r.LeadTimeDays = *req.LeadTimeDays
	}
	if req.SeasonalAdjustment != nil {
		r.SeasonalAdjustment = *req.SeasonalAdjustment
	}
	if req.Status != nil {
		r.Status = models.RuleStatus(*req.Status)
	}

	if err := uc.rules.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rule: %w", err)
	}
	return r, nil
}

func (uc *RulesUseCase) Get(ctx context.Context, id string) (*models.ReorderRule, error) {
	return uc.rules.Get(ctx, id)
}

func (uc *RulesUseCase) List(ctx context.Context) ([]*models.ReorderRule, error) {
	return uc.rules.List(ctx)
}
