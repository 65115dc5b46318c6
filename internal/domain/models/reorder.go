package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TriggerKind string

const (
	TriggerThreshold      TriggerKind = "threshold"
	TriggerTimeBased      TriggerKind = "time_based"
	TriggerDemandForecast TriggerKind = "demand_forecast"
)

type RuleStatus string

const (
	RuleActive   RuleStatus = "active"
	RuleInactive RuleStatus = "inactive"
)

// ReorderRule is a per-product trigger configuration. The evaluator is the
// only writer after creation and it touches only LastTriggered and
// TriggerCount; everything else belongs to the registry.
type ReorderRule struct {
	ID                 string
	ProductID          string
	Kind               TriggerKind
	TriggerValue       float64
	ReorderQuantity    int
	SupplierID         string
	UnitCost           decimal.Decimal
	ApprovalThreshold  decimal.Decimal
	ApprovalRequired   bool
	LeadTimeDays       int
	SeasonalAdjustment bool
	Status             RuleStatus
	CreatedAt          time.Time
	LastTriggered      time.Time // zero = never triggered
	TriggerCount       int
}

type OrderStatus string

const (
	OrderPendingApproval OrderStatus = "pending_approval"
	OrderApproved        OrderStatus = "approved"
	OrderSentToSupplier  OrderStatus = "sent_to_supplier"
	OrderRejected        OrderStatus = "rejected"
)

type OrderPriority string

const (
	PriorityHigh   OrderPriority = "high"
	PriorityMedium OrderPriority = "medium"
)

// Order is a purchase order produced from a fired trigger. Status moves only
// forward along pending_approval -> approved -> sent_to_supplier; rejection is
// terminal and only reachable from pending_approval.
type Order struct {
	ID               string
	RuleID           string
	ProductID        string
	SupplierID       string
	Quantity         int
	EstimatedCost    decimal.Decimal
	TriggerReason    string
	Status           OrderStatus
	CreatedAt        time.Time
	ExpectedDelivery time.Time
	Priority         OrderPriority

	ApprovedBy      string
	ApprovedAt      time.Time
	ApprovalNotes   string
	RejectedBy      string
	RejectedAt      time.Time
	RejectionReason string
	SentAt          time.Time
}

// FiredTrigger is one evaluator decision: this rule fires with this quantity.
type FiredTrigger struct {
	Rule     *ReorderRule
	Quantity int
	Reason   string
}
