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

// ForecastUseCase generates, stores and serves demand forecasts.
type ForecastUseCase struct {
	series    domrepo.SeriesStore
	forecasts domrepo.ForecastStore
	engine    domsvc.Forecaster
	sink      domrepo.EventSink
	metrics   domrepo.Metrics
	l         *applogger.Logger
	now       func() time.Time
}

func NewForecastUseCase(
	series domrepo.SeriesStore,
	forecasts domrepo.ForecastStore,
	engine domsvc.Forecaster,
	sink domrepo.EventSink,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *ForecastUseCase {
	return &ForecastUseCase{
		series:    series,
		forecasts: forecasts,
		engine:    engine,
		sink:      sink,
		metrics:   metrics,
		l:         l,
		now:       time.Now,
	}
}

// Generate builds a fresh forecast for the product, supersedes the stored
// one, and notifies subscribers. Event delivery is best-effort.
func (uc *ForecastUseCase) Generate(ctx context.Context, productID string, horizonDays int) (*models.Forecast, error) {
	start := time.Now()
	series, err := uc.series.GetSeries(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	f, err := uc.engine.Generate(ctx, productID, series, horizonDays, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.forecasts.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("save forecast: %w", err)
	}

	if err := uc.sink.Emit(ctx, models.NewForecastUpdatedEvent(f)); err != nil {
		if uc.l != nil {
			uc.l.Warn("forecast event emit failed",
				applogger.String("product_id", productID),
				applogger.Error(err),
			)
		}
	}

	if uc.metrics != nil {
		uc.metrics.RecordLatency("forecast_generate_seconds", time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Info("forecast generated",
			applogger.String("product_id", productID),
			applogger.Int("horizon_days", horizonDays),
			applogger.Any("predicted_demand", f.PredictedDemand),
			applogger.String("trend", string(f.Trend)),
		)
	}
	return f, nil
}

func (uc *ForecastUseCase) Get(ctx context.Context, productID string) (*models.Forecast, error) {
	return uc.forecasts.Get(ctx, productID)
}

func (uc *ForecastUseCase) List(ctx context.Context) ([]*models.Forecast, error) {
	return uc.forecasts.List(ctx)
}
