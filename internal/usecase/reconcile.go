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

// ReconcileUseCase closes the accuracy feedback loop: it attaches observed
// demand to the product's live forecast.
type ReconcileUseCase struct {
	forecasts domrepo.ForecastStore
	tracker   domsvc.AccuracyTracker
	l         *applogger.Logger
	now       func() time.Time
}

func NewReconcileUseCase(forecasts domrepo.ForecastStore, tracker domsvc.AccuracyTracker, l *applogger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{forecasts: forecasts, tracker: tracker, l: l, now: time.Now}
}

func (uc *ReconcileUseCase) Reconcile(ctx context.Context, productID string, req *models.ForecastAccuracyRequest) (*models.AccuracyMetrics, error) {
	if _, err := time.Parse(DateLayout, req.PeriodEnd); err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, req.PeriodEnd)
	}

	f, err := uc.forecasts.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	m := uc.tracker.Reconcile(f, req.ActualDemand, uc.now().UTC())
	if err := uc.forecasts.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("save reconciled forecast: %w", err)
	}

	if uc.l != nil {
		uc.l.Info("forecast reconciled",
			applogger.String("product_id", productID),
			applogger.Any("accuracy_score", m.AccuracyScore),
		)
	}
	return &m, nil
}
