package usecase

import (
	"context"
	"time"

	"StockPilot/internal/domain/models"
	applogger "StockPilot/pkg/logger"
	pkgqueue "StockPilot/pkg/queue"
)

// SupplierDispatchType is the queue message type for supplier hand-off.
const SupplierDispatchType = "supplier_dispatch"

// SupplierDispatchPayload is the queued supplier hand-off job payload.
type SupplierDispatchPayload struct {
	OrderID          string  `json:"order_id"`
	ProductID        string  `json:"product_id"`
	SupplierID       string  `json:"supplier_id"`
	Quantity         int     `json:"quantity"`
	EstimatedCost    float64 `json:"estimated_cost"`
	Priority         string  `json:"priority"`
	ExpectedDelivery string  `json:"expected_delivery"`
}

// SupplierDispatcher hands approved orders to the supplier queue. Dispatch
// failure is logged, not propagated: the order stays approved and the send is
// retried by the queue worker lifecycle, not the request path.
type SupplierDispatcher struct {
	queue pkgqueue.QueueService
	l     *applogger.Logger
}

func NewSupplierDispatcher(queue pkgqueue.QueueService, l *applogger.Logger) *SupplierDispatcher {
	return &SupplierDispatcher{queue: queue, l: l}
}

func (d *SupplierDispatcher) Dispatch(ctx context.Context, o *models.Order) error {
	if d.queue == nil {
		return nil
	}
	err := d.queue.PublishMessage(ctx, SupplierDispatchType, &SupplierDispatchPayload{
		OrderID:          o.ID,
		ProductID:        o.ProductID,
		SupplierID:       o.SupplierID,
		Quantity:         o.Quantity,
		EstimatedCost:    o.EstimatedCost.InexactFloat64(),
		Priority:         string(o.Priority),
		ExpectedDelivery: o.ExpectedDelivery.UTC().Format(time.RFC3339),
	})
	if err != nil {
		if d.l != nil {
			d.l.Warn("supplier dispatch enqueue failed",
				applogger.String("order_id", o.ID),
				applogger.String("supplier_id", o.SupplierID),
				applogger.Error(err),
			)
		}
		return err
	}
	return nil
}
