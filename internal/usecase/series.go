package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// SeriesUseCase manages per-product demand history.
type SeriesUseCase struct {
	store domrepo.SeriesStore
	now   func() time.Time
}

func NewSeriesUseCase(store domrepo.SeriesStore) *SeriesUseCase {
	return &SeriesUseCase{store: store, now: time.Now}
}

func (uc *SeriesUseCase) Append(ctx context.Context, req *models.AppendHistoricalRequest) (*models.HistoricalRecord, error) {
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDate, req.Date)
	}

	rec := &models.HistoricalRecord{
		ProductID:       req.ProductID,
		Date:            models.Day(date),
		Demand:          req.Demand,
		Sales:           req.Sales,
		Price:           req.Price,
		Promotion:       req.Promotion,
		ExternalFactors: req.ExternalFactors,
		AddedAt:         uc.now().UTC(),
	}
	if err := uc.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append record: %w", err)
	}
	return rec, nil
}

func (uc *SeriesUseCase) GetSeries(ctx context.Context, productID string) ([]models.HistoricalRecord, error) {
	series, err := uc.store.GetSeries(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	return series, nil
}
