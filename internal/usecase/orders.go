package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	domsvc "StockPilot/internal/domain/service"
	applogger "StockPilot/pkg/logger"
)

// OrderUseCase drives the approval workflow for pending orders.
type OrderUseCase struct {
	orders     domrepo.OrderStore
	factory    domsvc.OrderFactory
	sink       domrepo.EventSink
	dispatcher *SupplierDispatcher
	l          *applogger.Logger
	now        func() time.Time
}

func NewOrderUseCase(
	orders domrepo.OrderStore,
	factory domsvc.OrderFactory,
	sink domrepo.EventSink,
	dispatcher *SupplierDispatcher,
	l *applogger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:     orders,
		factory:    factory,
		sink:       sink,
		dispatcher: dispatcher,
		l:          l,
		now:        time.Now,
	}
}

// Approve approves a pending order and hands it to the supplier queue.
func (uc *OrderUseCase) Approve(ctx context.Context, orderID string, req *models.ApproveOrderRequest) (*models.Order, error) {
	o, err := uc.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := uc.factory.Approve(o, req.ApprovedBy, req.Notes, now); err != nil {
		return nil, err
	}
	if err := uc.factory.MarkSent(o, now); err != nil {
		return nil, fmt.Errorf("mark order sent: %w", err)
	}
	if uc.dispatcher != nil {
		_ = uc.dispatcher.Dispatch(ctx, o)
	}

	if err := uc.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	if err := uc.sink.Emit(ctx, models.NewOrderEvent(models.EventOrderApproved, o)); err != nil {
		if uc.l != nil {
			uc.l.Warn("approval event emit failed", applogger.String("order_id", o.ID), applogger.Error(err))
		}
	}
	if uc.l != nil {
		uc.l.Info("order approved",
			applogger.String("order_id", o.ID),
			applogger.String("approved_by", req.ApprovedBy),
		)
	}
	return o, nil
}

// Reject rejects a pending order. Terminal: the order never leaves rejected.
func (uc *OrderUseCase) Reject(ctx context.Context, orderID string, req *models.RejectOrderRequest) (*models.Order, error) {
	o, err := uc.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := uc.factory.Reject(o, req.RejectedBy, req.Reason, uc.now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	if err := uc.sink.Emit(ctx, models.NewOrderEvent(models.EventOrderRejected, o)); err != nil {
		if uc.l != nil {
			uc.l.Warn("rejection event emit failed", applogger.String("order_id", o.ID), applogger.Error(err))
		}
	}
	if uc.l != nil {
		uc.l.Info("order rejected",
			applogger.String("order_id", o.ID),
			applogger.String("rejected_by", req.RejectedBy),
			applogger.String("reason", req.Reason),
		)
	}
	return o, nil
}

func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return uc.orders.Get(ctx, orderID)
}

// List returns orders newest first, optionally filtered by status.
func (uc *OrderUseCase) List(ctx context.Context, status string) ([]*models.Order, error) {
	orders, err := uc.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return orders, nil
	}
	filtered := make([]*models.Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Status) == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}
