package reorder

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
	domsvc "StockPilot/internal/domain/service"
)

// Factory builds purchase orders from fired triggers and owns the order
// status machine.
type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

// Create builds an order for a fired trigger. Cost is quantity times the
// rule's unit cost; the order needs approval when the rule demands it or the
// cost exceeds the rule's approval threshold, otherwise it starts approved.
func (fa *Factory) Create(rule *models.ReorderRule, quantity int, reason string, now time.Time) *models.Order {
	cost := rule.UnitCost.Mul(decimal.NewFromInt(int64(quantity)))

	status := models.OrderApproved
	if rule.ApprovalRequired || cost.GreaterThan(rule.ApprovalThreshold) {
		status = models.OrderPendingApproval
	}

	priority := models.PriorityMedium
	if strings.Contains(strings.ToLower(reason), "stockout") {
		priority = models.PriorityHigh
	}

	return &models.Order{
		ID:               uuid.NewString(),
		RuleID:           rule.ID,
		ProductID:        rule.ProductID,
		SupplierID:       rule.SupplierID,
		Quantity:         quantity,
		EstimatedCost:    cost,
		TriggerReason:    reason,
		Status:           status,
		CreatedAt:        now,
		ExpectedDelivery: now.AddDate(0, 0, rule.LeadTimeDays),
		Priority:         priority,
	}
}

// Approve moves a pending order to approved.
func (fa *Factory) Approve(o *models.Order, approvedBy, notes string, now time.Time) error {
	if o.Status != models.OrderPendingApproval {
		return fmt.Errorf("order %s is %s: %w", o.ID, o.Status, models.ErrNotPendingApproval)
	}
	o.Status = models.OrderApproved
	o.ApprovedBy = approvedBy
	o.ApprovedAt = now
	o.ApprovalNotes = notes
	return nil
}

// Reject moves a pending order to rejected. Rejection is terminal.
func (fa *Factory) Reject(o *models.Order, rejectedBy, reason string, now time.Time) error {
	if o.Status != models.OrderPendingApproval {
		return fmt.Errorf("order %s is %s: %w", o.ID, o.Status, models.ErrNotPendingApproval)
	}
	o.Status = models.OrderRejected
	o.RejectedBy = rejectedBy
	o.RejectedAt = now
	o.RejectionReason = reason
	return nil
}

// MarkSent records supplier dispatch of an approved order.
func (fa *Factory) MarkSent(o *models.Order, now time.Time) error {
	if o.Status != models.OrderApproved {
		return fmt.Errorf("order %s is %s: %w", o.ID, o.Status, models.ErrInvalidTransition)
	}
	o.Status = models.OrderSentToSupplier
	o.SentAt = now
	return nil
}

var _ domsvc.OrderFactory = (*Factory)(nil)
