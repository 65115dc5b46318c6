package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
)

// MemorySeriesStore is the in-process SeriesStore used when ClickHouse is
// disabled and in tests. One record per product per calendar day, last write
// wins, rolling 365-day retention.
type MemorySeriesStore struct {
	mu    sync.RWMutex
	byDay map[string]map[time.Time]models.HistoricalRecord
}

func NewMemorySeriesStore() *MemorySeriesStore {
	return &MemorySeriesStore{byDay: make(map[string]map[time.Time]models.HistoricalRecord)}
}

func (s *MemorySeriesStore) Append(_ context.Context, rec *models.HistoricalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.byDay[rec.ProductID]
	if !ok {
		days = make(map[time.Time]models.HistoricalRecord)
		s.byDay[rec.ProductID] = days
	}
	r := *rec
	r.Date = models.Day(rec.Date)
	days[r.Date] = r

	if len(days) > seriesRetentionDays {
		dates := make([]time.Time, 0, len(days))
		for d := range days {
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		for _, d := range dates[:len(dates)-seriesRetentionDays] {
			delete(days, d)
		}
	}
	return nil
}

func (s *MemorySeriesStore) GetSeries(_ context.Context, productID string) ([]models.HistoricalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := s.byDay[productID]
	out := make([]models.HistoricalRecord, 0, len(days))
	for _, rec := range days {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemorySeriesStore) Health(context.Context) error { return nil }
func (s *MemorySeriesStore) Close() error                 { return nil }

// MemoryForecastStore keeps the live forecast per product. Save supersedes
// the prior forecast for the same product.
type MemoryForecastStore struct {
	mu   sync.RWMutex
	live map[string]*models.Forecast
}

func NewMemoryForecastStore() *MemoryForecastStore {
	return &MemoryForecastStore{live: make(map[string]*models.Forecast)}
}

func (s *MemoryForecastStore) Save(_ context.Context, f *models.Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[f.ProductID] = copyForecast(f)
	return nil
}

func (s *MemoryForecastStore) Get(_ context.Context, productID string) (*models.Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.live[productID]
	if !ok {
		return nil, models.ErrForecastNotFound
	}
	return copyForecast(f), nil
}

func (s *MemoryForecastStore) List(_ context.Context) ([]*models.Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Forecast, 0, len(s.live))
	for _, f := range s.live {
		out = append(out, copyForecast(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func copyForecast(f *models.Forecast) *models.Forecast {
	c := *f
	c.Breakdown = make([]models.DailyForecast, len(f.Breakdown))
	copy(c.Breakdown, f.Breakdown)
	return &c
}

// MemoryRuleRegistry keeps reorder rules in insertion order so a trigger
// evaluation pass is deterministic.
type MemoryRuleRegistry struct {
	mu    sync.RWMutex
	byID  map[string]*models.ReorderRule
	order []string
}

func NewMemoryRuleRegistry() *MemoryRuleRegistry {
	return &MemoryRuleRegistry{byID: make(map[string]*models.ReorderRule)}
}

func (s *MemoryRuleRegistry) Save(_ context.Context, r *models.ReorderRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	c := *r
	s.byID[r.ID] = &c
	return nil
}

func (s *MemoryRuleRegistry) Get(_ context.Context, id string) (*models.ReorderRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, models.ErrRuleNotFound
	}
	c := *r
	return &c, nil
}

func (s *MemoryRuleRegistry) List(_ context.Context) ([]*models.ReorderRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ReorderRule, 0, len(s.order))
	for _, id := range s.order {
		c := *s.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryRuleRegistry) ListByProduct(_ context.Context, productID string) ([]*models.ReorderRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ReorderRule, 0, 4)
	for _, id := range s.order {
		if r := s.byID[id]; r.ProductID == productID {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

// MemoryOrderStore keeps purchase orders, listed newest first.
type MemoryOrderStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.Order
	order []string
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{byID: make(map[string]*models.Order)}
}

func (s *MemoryOrderStore) Save(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[o.ID]; !ok {
		s.order = append(s.order, o.ID)
	}
	c := *o
	s.byID[o.ID] = &c
	return nil
}

func (s *MemoryOrderStore) Get(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (s *MemoryOrderStore) List(_ context.Context) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Order, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		c := *s.byID[s.order[i]]
		out = append(out, &c)
	}
	return out, nil
}

var (
	_ domrepo.SeriesStore   = (*MemorySeriesStore)(nil)
	_ domrepo.ForecastStore = (*MemoryForecastStore)(nil)
	_ domrepo.RuleRegistry  = (*MemoryRuleRegistry)(nil)
	_ domrepo.OrderStore    = (*MemoryOrderStore)(nil)
)
