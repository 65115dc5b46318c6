package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	pkgch "StockPilot/pkg/clickhouse"
	applogger "StockPilot/pkg/logger"
)

// seriesRetentionDays bounds how far back a product's series is read.
const seriesRetentionDays = 365

// CHSeriesStore implements SeriesStore backed by ClickHouse. The table is
// append-only; re-submitting a calendar day writes a new row and reads
// collapse duplicates to the latest submission per day.
type CHSeriesStore struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSeriesStore(ch *pkgch.Client, table string) *CHSeriesStore {
	return &CHSeriesStore{ch: ch, db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSeriesStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSeriesStore) Append(ctx context.Context, rec *models.HistoricalRecord) error {
	start := time.Now()
	q := fmt.Sprintf(`
        INSERT INTO %s (product_id, date, demand, sales, price, promotion, external_factors, added_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, s.table)
	factors := rec.ExternalFactors
	if factors == nil {
		factors = map[string]string{}
	}
	_, err := s.db.ExecContext(ctx, q,
		rec.ProductID,
		models.Day(rec.Date),
		rec.Demand,
		rec.Sales,
		rec.Price,
		rec.Promotion,
		factors,
		rec.AddedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse series append error",
				applogger.String("table", s.table),
				applogger.String("product_id", rec.ProductID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("append record: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse series append ok",
			applogger.String("table", s.table),
			applogger.String("product_id", rec.ProductID),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSeriesStore) GetSeries(ctx context.Context, productID string) ([]models.HistoricalRecord, error) {
	start := time.Now()
	cutoff := models.Day(time.Now().UTC()).AddDate(0, 0, -seriesRetentionDays)

	// Duplicate days collapse to the latest submission.
	q := fmt.Sprintf(`
        SELECT date,
               argMax(demand, added_at),
               argMax(sales, added_at),
               argMax(price, added_at),
               argMax(promotion, added_at),
               argMax(external_factors, added_at),
               max(added_at)
        FROM %s
        WHERE product_id = ? AND date >= ?
        GROUP BY date
        ORDER BY date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, productID, cutoff)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse series query error",
				applogger.String("table", s.table),
				applogger.String("product_id", productID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get series: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoricalRecord, 0, 64)
	for rows.Next() {
		rec := models.HistoricalRecord{ProductID: productID}
		if err := rows.Scan(&rec.Date, &rec.Demand, &rec.Sales, &rec.Price, &rec.Promotion, &rec.ExternalFactors, &rec.AddedAt); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse series scan error",
					applogger.String("table", s.table),
					applogger.String("product_id", productID),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Date = models.Day(rec.Date)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse series query ok",
			applogger.String("table", s.table),
			applogger.String("product_id", productID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSeriesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSeriesStore) Close() error {
	return s.ch.Close()
}

var _ domrepo.SeriesStore = (*CHSeriesStore)(nil)
