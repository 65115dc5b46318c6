package models

// Requests for the reorder HTTP endpoints. Defined in domain for consistency and reuse.

type CreateRuleRequest struct {
	ProductID          string  `json:"product_id" validate:"required"`
	TriggerType        string  `json:"trigger_type" validate:"required,oneof=threshold time_based demand_forecast"`
	TriggerValue       float64 `json:"trigger_value" validate:"gte=0"`
	ReorderQuantity    int     `json:"reorder_quantity" validate:"required,gt=0"`
	SupplierID         string  `json:"supplier_id"`
	UnitCost           float64 `json:"unit_cost" validate:"required,gt=0"`
	ApprovalThreshold  float64 `json:"approval_threshold" default:"1000" validate:"gte=0"`
	ApprovalRequired   bool    `json:"approval_required"`
	LeadTimeDays       int     `json:"lead_time_days" default:"7" validate:"gte=0,lte=365"`
	SeasonalAdjustment bool    `json:"seasonal_adjustment"`
}

type UpdateRuleRequest struct {
	TriggerType        *string  `json:"trigger_type" validate:"omitempty,oneof=threshold time_based demand_forecast"`
	TriggerValue       *float64 `json:"trigger_value" validate:"omitempty,gte=0"`
	ReorderQuantity    *int     `json:"reorder_quantity" validate:"omitempty,gt=0"`
	SupplierID         *string  `json:"supplier_id"`
	UnitCost           *float64 `json:"unit_cost" validate:"omitempty,gt=0"`
	ApprovalThreshold  *float64 `json:"approval_threshold" validate:"omitempty,gte=0"`
	ApprovalRequired   *bool    `json:"approval_required"`
	LeadTimeDays       *int     `json:"lead_time_days" validate:"omitempty,gte=0,lte=365"`
	SeasonalAdjustment *bool    `json:"seasonal_adjustment"`
	Status             *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// StockLevel is the per-product slice of the inventory payload sent by the
// inventory collaborator. PredictedDemand is optional; when absent the live
// forecast (if any) backs the demand_forecast trigger instead.
type StockLevel struct {
	CurrentStock    float64  `json:"current_stock" validate:"gte=0"`
	PredictedDemand *float64 `json:"predicted_demand" validate:"omitempty,gte=0"`
}

type CheckTriggersRequest struct {
	Inventory map[string]StockLevel `json:"inventory_data" validate:"required,min=1"`
}

type ManualTriggerRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type ApproveOrderRequest struct {
	ApprovedBy string `json:"approved_by" default:"system"`
	Notes      string `json:"notes"`
}

type RejectOrderRequest struct {
	RejectedBy string `json:"rejected_by" default:"system"`
	Reason     string `json:"reason"`
}
