package repository

import (
	"context"

	"StockPilot/internal/domain/models"
)

// SeriesStore holds per-product daily demand history. Append-only; duplicate
// calendar days overwrite (last write wins) and reads return an ascending,
// rolling 365-day window.
type SeriesStore interface {
	Append(ctx context.Context, rec *models.HistoricalRecord) error
	GetSeries(ctx context.Context, productID string) ([]models.HistoricalRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// ForecastStore keeps one live forecast per product; Save replaces the prior.
type ForecastStore interface {
	Save(ctx context.Context, f *models.Forecast) error
	Get(ctx context.Context, productID string) (*models.Forecast, error)
	List(ctx context.Context) ([]*models.Forecast, error)
}

// RuleRegistry owns reorder rule configurations. List returns rules in
// insertion order so one evaluation pass is deterministic.
type RuleRegistry interface {
	Save(ctx context.Context, r *models.ReorderRule) error
	Get(ctx context.Context, id string) (*models.ReorderRule, error)
	List(ctx context.Context) ([]*models.ReorderRule, error)
	ListByProduct(ctx context.Context, productID string) ([]*models.ReorderRule, error)
}

// OrderStore owns purchase orders.
type OrderStore interface {
	Save(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
}

// EventSink fans domain events out to subscribers. Fire-and-forget; the core
// makes no delivery guarantee.
type EventSink interface {
	Emit(ctx context.Context, ev *models.Event) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordEventEmitted(sink, trigger string)
	RecordError(kind string)
	RecordStockLevel(productID string, qty float64)
	RecordLatency(op string, seconds float64)
}
