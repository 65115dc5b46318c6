package usecase

import (
	"context"
	"encoding/json"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	pkgkafka "StockPilot/pkg/kafka"
)

// KafkaDemandHandler consumes demand observations published by upstream
// inventory systems and appends them to the series store.
type KafkaDemandHandler struct {
	topic   string
	series  domrepo.SeriesStore
	metrics domrepo.Metrics
}

func NewKafkaDemandHandler(topic string, series domrepo.SeriesStore, metrics domrepo.Metrics) *KafkaDemandHandler {
	return &KafkaDemandHandler{topic: topic, series: series, metrics: metrics}
}

func (h *KafkaDemandHandler) Topic() string { return h.topic }

// incoming message schema: {product_id, date, demand, sales, price, promotions}
func (h *KafkaDemandHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		ProductID string            `json:"product_id"`
		Date      string            `json:"date"`
		Demand    float64           `json:"demand"`
		Sales     float64           `json:"sales"`
		Price     float64           `json:"price"`
		Promotion bool              `json:"promotions"`
		Factors   map[string]string `json:"external_factors"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	date, err := time.Parse(DateLayout, m.Date)
	if err != nil {
		h.metrics.RecordError("consumer_bad_date")
		return err
	}

	start := time.Now()
	err = h.series.Append(ctx, &models.HistoricalRecord{
		ProductID:       m.ProductID,
		Date:            models.Day(date),
		Demand:          m.Demand,
		Sales:           m.Sales,
		Price:           m.Price,
		Promotion:       m.Promotion,
		ExternalFactors: m.Factors,
		AddedAt:         time.Now().UTC(),
	})
	h.metrics.RecordLatency("series_append_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_append")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaDemandHandler)(nil)
