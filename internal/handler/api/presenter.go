package api

import (
	"time"

	"StockPilot/internal/domain/models"
	"StockPilot/internal/usecase"
)

// Wire representations of the domain models. Dates use RFC 3339 except
// calendar days, which use YYYY-MM-DD.

type DailyForecastDTO struct {
	Date   string  `json:"date"`
	Demand float64 `json:"demand"`
}

type ForecastDTO struct {
	ProductID       string             `json:"product_id"`
	PeriodDays      int                `json:"forecast_period_days"`
	PredictedDemand float64            `json:"predicted_demand"`
	Confidence      int                `json:"confidence_level"`
	Trend           string             `json:"trend_direction"`
	SeasonalFactor  float64            `json:"seasonal_factor"`
	Breakdown       []DailyForecastDTO `json:"daily_breakdown"`
	Model           string             `json:"model_used"`
	CreatedAt       string             `json:"created_date"`
	ValidUntil      string             `json:"valid_until"`

	ActualDemand    *float64 `json:"actual_demand,omitempty"`
	ForecastError   *float64 `json:"forecast_error,omitempty"`
	PercentageError *float64 `json:"percentage_error,omitempty"`
	AccuracyScore   *float64 `json:"accuracy_score,omitempty"`
	AccuracyUpdated *string  `json:"accuracy_updated,omitempty"`
}

func toForecastDTO(f *models.Forecast) *ForecastDTO {
	dto := &ForecastDTO{
		ProductID:       f.ProductID,
		PeriodDays:      f.PeriodDays,
		PredictedDemand: f.PredictedDemand,
		Confidence:      f.Confidence,
		Trend:           string(f.Trend),
		SeasonalFactor:  f.SeasonalFactor,
		Breakdown:       make([]DailyForecastDTO, 0, len(f.Breakdown)),
		Model:           f.Model,
		CreatedAt:       f.CreatedAt.UTC().Format(time.RFC3339),
		ValidUntil:      f.ValidUntil.UTC().Format(time.RFC3339),
	}
	for _, d := range f.Breakdown {
		dto.Breakdown = append(dto.Breakdown, DailyForecastDTO{
			Date:   d.Date.Format(usecase.DateLayout),
			Demand: d.Demand,
		})
	}
	if f.Reconciled {
		dto.ActualDemand = &f.ActualDemand
		dto.ForecastError = &f.ForecastError
		dto.PercentageError = &f.PercentageError
		dto.AccuracyScore = &f.AccuracyScore
		updated := f.AccuracyUpdated.UTC().Format(time.RFC3339)
		dto.AccuracyUpdated = &updated
	}
	return dto
}

func toForecastDTOs(fs []*models.Forecast) []*ForecastDTO {
	out := make([]*ForecastDTO, 0, len(fs))
	for _, f := range fs {
		out = append(out, toForecastDTO(f))
	}
	return out
}

type HistoricalRecordDTO struct {
	ProductID       string            `json:"product_id"`
	Date            string            `json:"date"`
	Demand          float64           `json:"demand"`
	Sales           float64           `json:"sales"`
	Price           float64           `json:"price"`
	Promotion       bool              `json:"promotions"`
	ExternalFactors map[string]string `json:"external_factors,omitempty"`
	AddedAt         string            `json:"added_date"`
}

func toRecordDTO(rec *models.HistoricalRecord) *HistoricalRecordDTO {
	return &HistoricalRecordDTO{
		ProductID:       rec.ProductID,
		Date:            rec.Date.Format(usecase.DateLayout),
		Demand:          rec.Demand,
		Sales:           rec.Sales,
		Price:           rec.Price,
		Promotion:       rec.Promotion,
		ExternalFactors: rec.ExternalFactors,
		AddedAt:         rec.AddedAt.UTC().Format(time.RFC3339),
	}
}

func toRecordDTOs(recs []models.HistoricalRecord) []*HistoricalRecordDTO {
	out := make([]*HistoricalRecordDTO, 0, len(recs))
	for i := range recs {
		out = append(out, toRecordDTO(&recs[i]))
	}
	return out
}

type AccuracyMetricsDTO struct {
	PredictedDemand float64 `json:"predicted_demand"`
	ActualDemand    float64 `json:"actual_demand"`
	ForecastError   float64 `json:"forecast_error"`
	PercentageError float64 `json:"percentage_error"`
	AccuracyScore   float64 `json:"accuracy_score"`
}

func toAccuracyDTO(m *models.AccuracyMetrics) *AccuracyMetricsDTO {
	return &AccuracyMetricsDTO{
		PredictedDemand: m.PredictedDemand,
		ActualDemand:    m.ActualDemand,
		ForecastError:   m.ForecastError,
		PercentageError: m.PercentageError,
		AccuracyScore:   m.AccuracyScore,
	}
}

type RuleDTO struct {
	RuleID             string  `json:"rule_id"`
	ProductID          string  `json:"product_id"`
	TriggerType        string  `json:"trigger_type"`
	TriggerValue       float64 `json:"trigger_value"`
	ReorderQuantity    int     `json:"reorder_quantity"`
	SupplierID         string  `json:"supplier_id"`
	UnitCost           float64 `json:"unit_cost"`
	ApprovalThreshold  float64 `json:"approval_threshold"`
	ApprovalRequired   bool    `json:"approval_required"`
	LeadTimeDays       int     `json:"lead_time_days"`
	SeasonalAdjustment bool    `json:"seasonal_adjustment"`
	Status             string  `json:"status"`
	CreatedAt          string  `json:"created_date"`
	LastTriggered      *string `json:"last_triggered,omitempty"`
	TotalTriggers      int     `json:"total_triggers"`
}

func toRuleDTO(r *models.ReorderRule) *RuleDTO {
	dto := &RuleDTO{
		RuleID:             r.ID,
		ProductID:          r.ProductID,
		TriggerType:        string(r.Kind),
		TriggerValue:       r.TriggerValue,
		ReorderQuantity:    r.ReorderQuantity,
		SupplierID:         r.SupplierID,
		UnitCost:           r.UnitCost.InexactFloat64(),
		ApprovalThreshold:  r.ApprovalThreshold.InexactFloat64(),
		ApprovalRequired:   r.ApprovalRequired,
		LeadTimeDays:       r.LeadTimeDays,
		SeasonalAdjustment: r.SeasonalAdjustment,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
		TotalTriggers:      r.TriggerCount,
	}
	if !r.LastTriggered.IsZero() {
		lt := r.LastTriggered.UTC().Format(time.RFC3339)
		dto.LastTriggered = &lt
	}
	return dto
}

func toRuleDTOs(rs []*models.ReorderRule) []*RuleDTO {
	out := make([]*RuleDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRuleDTO(r))
	}
	return out
}

type OrderDTO struct {
	OrderID          string  `json:"order_id"`
	RuleID           string  `json:"rule_id"`
	ProductID        string  `json:"product_id"`
	SupplierID       string  `json:"supplier_id"`
	Quantity         int     `json:"quantity"`
	EstimatedCost    float64 `json:"estimated_cost"`
	TriggerReason    string  `json:"trigger_reason"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_date"`
	ExpectedDelivery string  `json:"expected_delivery"`
	Priority         string  `json:"priority"`

	ApprovedBy      string  `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_date,omitempty"`
	ApprovalNotes   string  `json:"approval_notes,omitempty"`
	RejectedBy      string  `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_date,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	SentAt          *string `json:"sent_to_supplier_date,omitempty"`
}

func toOrderDTO(o *models.Order) *OrderDTO {
	dto := &OrderDTO{
		OrderID:          o.ID,
		RuleID:           o.RuleID,
		ProductID:        o.ProductID,
		SupplierID:       o.SupplierID,
		Quantity:         o.Quantity,
		EstimatedCost:    o.EstimatedCost.InexactFloat64(),
		TriggerReason:    o.TriggerReason,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
		ExpectedDelivery: o.ExpectedDelivery.UTC().Format(time.RFC3339),
		Priority:         string(o.Priority),
		ApprovedBy:       o.ApprovedBy,
		ApprovalNotes:    o.ApprovalNotes,
		RejectedBy:       o.RejectedBy,
		RejectionReason:  o.RejectionReason,
	}
	if !o.ApprovedAt.IsZero() {
		v := o.ApprovedAt.UTC().Format(time.RFC3339)
		dto.ApprovedAt = &v
	}
	if !o.RejectedAt.IsZero() {
		v := o.RejectedAt.UTC().Format(time.RFC3339)
		dto.RejectedAt = &v
	}
	if !o.SentAt.IsZero() {
		v := o.SentAt.UTC().Format(time.RFC3339)
		dto.SentAt = &v
	}
	return dto
}

func toOrderDTOs(os []*models.Order) []*OrderDTO {
	out := make([]*OrderDTO, 0, len(os))
	for _, o := range os {
		out = append(out, toOrderDTO(o))
	}
	return out
}
