package reorder

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"StockPilot/internal/domain/models"
)

var orderNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func orderRule() *models.ReorderRule {
	return &models.ReorderRule{
		ID:                "rule-1",
		ProductID:         "P-1",
		SupplierID:        "SUP-1",
		ReorderQuantity:   10,
		UnitCost:          decimal.NewFromInt(50),
		ApprovalThreshold: decimal.NewFromInt(1000),
		LeadTimeDays:      7,
		Status:            models.RuleActive,
	}
}

func TestCreateOrder(t *testing.T) {
	fa := NewFactory()

	o := fa.Create(orderRule(), 10, "Stock level (8) below threshold (10)", orderNow)

	if o.ID == "" {
		t.Fatalf("order id not assigned")
	}
	if !o.EstimatedCost.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("estimated cost = %s, want 500", o.EstimatedCost)
	}
	if o.Status != models.OrderApproved {
		t.Fatalf("status = %s, want %s below threshold", o.Status, models.OrderApproved)
	}
	if o.Priority != models.PriorityMedium {
		t.Fatalf("priority = %s, want %s", o.Priority, models.PriorityMedium)
	}
	if want := orderNow.AddDate(0, 0, 7); !o.ExpectedDelivery.Equal(want) {
		t.Fatalf("expected delivery = %v, want %v", o.ExpectedDelivery, want)
	}

	second := fa.Create(orderRule(), 10, "reason", orderNow)
	if second.ID == o.ID {
		t.Fatalf("order ids must be unique")
	}
}

func TestCreateOrderApprovalPolicy(t *testing.T) {
	fa := NewFactory()

	// Cost above the threshold forces review.
	rule := orderRule()
	o := fa.Create(rule, 30, "reason", orderNow) // 30 * 50 = 1500
	if o.Status != models.OrderPendingApproval {
		t.Fatalf("cost 1500 over threshold 1000: status = %s", o.Status)
	}

	// Cost exactly at the threshold does not.
	o = fa.Create(rule, 20, "reason", orderNow) // 20 * 50 = 1000
	if o.Status != models.OrderApproved {
		t.Fatalf("cost at threshold: status = %s", o.Status)
	}

	// Explicit approval requirement wins regardless of cost.
	rule = orderRule()
	rule.ApprovalRequired = true
	o = fa.Create(rule, 1, "reason", orderNow)
	if o.Status != models.OrderPendingApproval {
		t.Fatalf("approval_required rule: status = %s", o.Status)
	}
}

func TestCreateOrderStockoutPriority(t *testing.T) {
	fa := NewFactory()

	o := fa.Create(orderRule(), 10, "Stockout risk: stock exhausted", orderNow)
	if o.Priority != models.PriorityHigh {
		t.Fatalf("stockout reason: priority = %s, want %s", o.Priority, models.PriorityHigh)
	}
}

func TestApproveOrder(t *testing.T) {
	fa := NewFactory()
	rule := orderRule()
	rule.ApprovalRequired = true

	o := fa.Create(rule, 10, "reason", orderNow)
	if err := fa.Approve(o, "ops@acme", "rush it", orderNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != models.OrderApproved || o.ApprovedBy != "ops@acme" || o.ApprovalNotes != "rush it" {
		t.Fatalf("approval fields not set: %+v", o)
	}
	if !o.ApprovedAt.Equal(orderNow) {
		t.Fatalf("approved at = %v, want %v", o.ApprovedAt, orderNow)
	}

	if err := fa.Approve(o, "ops@acme", "", orderNow); !errors.Is(err, models.ErrNotPendingApproval) {
		t.Fatalf("double approval: err = %v, want ErrNotPendingApproval", err)
	}
}

func TestRejectOrder(t *testing.T) {
	fa := NewFactory()
	rule := orderRule()
	rule.ApprovalRequired = true

	o := fa.Create(rule, 10, "reason", orderNow)
	if err := fa.Reject(o, "ops@acme", "budget freeze", orderNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != models.OrderRejected || o.RejectionReason != "budget freeze" {
		t.Fatalf("rejection fields not set: %+v", o)
	}

	// Rejection is terminal.
	if err := fa.Approve(o, "ops@acme", "", orderNow); !errors.Is(err, models.ErrNotPendingApproval) {
		t.Fatalf("approve after reject: err = %v, want ErrNotPendingApproval", err)
	}
	if err := fa.MarkSent(o, orderNow); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("send after reject: err = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkSent(t *testing.T) {
	fa := NewFactory()

	o := fa.Create(orderRule(), 10, "reason", orderNow) // auto-approved
	if err := fa.MarkSent(o, orderNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != models.OrderSentToSupplier || !o.SentAt.Equal(orderNow) {
		t.Fatalf("sent fields not set: %+v", o)
	}

	rule := orderRule()
	rule.ApprovalRequired = true
	pending := fa.Create(rule, 10, "reason", orderNow)
	if err := fa.MarkSent(pending, orderNow); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("send pending order: err = %v, want ErrInvalidTransition", err)
	}
}
