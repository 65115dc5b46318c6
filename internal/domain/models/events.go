package models

import "time"

// Event trigger names, matching the names webhook subscribers register for.
const (
	EventForecastUpdated  = "forecast_updated"
	EventReorderGenerated = "reorder_generated"
	EventOrderApproved    = "order_approved"
	EventOrderRejected    = "order_rejected"
)

// Event is a domain notification fanned out to subscribers. Delivery is
// fire-and-forget; no guarantee is made by the core.
type Event struct {
	Trigger   string
	ProductID string
	Timestamp time.Time
	Payload   map[string]interface{}
}

// NewForecastUpdatedEvent builds the forecast_updated notification payload.
func NewForecastUpdatedEvent(f *Forecast) *Event {
	return &Event{
		Trigger:   EventForecastUpdated,
		ProductID: f.ProductID,
		Timestamp: f.CreatedAt,
		Payload: map[string]interface{}{
			"product_id":           f.ProductID,
			"predicted_demand":     f.PredictedDemand,
			"confidence_level":     f.Confidence,
			"trend_direction":      string(f.Trend),
			"forecast_period_days": f.PeriodDays,
		},
	}
}

// NewOrderEvent builds an order lifecycle notification payload.
func NewOrderEvent(trigger string, o *Order) *Event {
	return &Event{
		Trigger:   trigger,
		ProductID: o.ProductID,
		Timestamp: time.Now().UTC(),
		Payload: map[string]interface{}{
			"order_id":       o.ID,
			"product_id":     o.ProductID,
			"supplier_id":    o.SupplierID,
			"quantity":       o.Quantity,
			"estimated_cost": o.EstimatedCost.InexactFloat64(),
			"status":         string(o.Status),
		},
	}
}
