package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsEmitted *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	stockLevel    *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		eventsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_events_emitted_total",
				Help: "Total number of domain events emitted to a sink",
			},
			[]string{"sink", "trigger"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpilot_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		stockLevel: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpilot_stock_level",
				Help: "Last reported stock level for a product",
			},
			[]string{"product_id"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpilot_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEventEmitted records a domain event delivered to a sink.
func (r *Recorder) RecordEventEmitted(sink, trigger string) {
	r.eventsEmitted.WithLabelValues(sink, trigger).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStockLevel records the last reported stock level for a product.
func (r *Recorder) RecordStockLevel(productID string, qty float64) {
	r.stockLevel.WithLabelValues(productID).Set(qty)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
