package usecase

import (
	"context"
	"fmt"

	applogger "StockPilot/pkg/logger"
	pkgqueue "StockPilot/pkg/queue"
)

// SupplierDispatchJob is the queue worker that performs the supplier
// hand-off for sent orders.
type SupplierDispatchJob struct {
	l *applogger.Logger
}

func NewSupplierDispatchJob(l *applogger.Logger) *SupplierDispatchJob {
	return &SupplierDispatchJob{l: l}
}

func (j *SupplierDispatchJob) Name() string { return "supplier-dispatch" }
func (j *SupplierDispatchJob) Type() string { return SupplierDispatchType }

func (j *SupplierDispatchJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := pkgqueue.ParsePayload[SupplierDispatchPayload](payload)
	if err != nil {
		return fmt.Errorf("parse dispatch payload: %w", err)
	}

	// Supplier integration is simulated: the hand-off is recorded and the
	// payload shape matches what an EDI/API connector would send.
	if j.l != nil {
		j.l.Info("order sent to supplier",
			applogger.String("order_id", p.OrderID),
			applogger.String("supplier_id", p.SupplierID),
			applogger.String("product_id", p.ProductID),
			applogger.Int("quantity", p.Quantity),
			applogger.String("priority", p.Priority),
			applogger.String("expected_delivery", p.ExpectedDelivery),
		)
	}
	return nil
}

var _ pkgqueue.Job = (*SupplierDispatchJob)(nil)
