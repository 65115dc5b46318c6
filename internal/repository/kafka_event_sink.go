package repository

import (
	"context"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	pkgkafka "StockPilot/pkg/kafka"
)

// KafkaEventSink publishes domain events to a Kafka topic, keyed by product
// id so per-product ordering survives partitioning.
type KafkaEventSink struct {
	producer *pkgkafka.Producer
	topic    string
	metrics  domrepo.Metrics
}

func NewKafkaEventSink(producer *pkgkafka.Producer, topic string, metrics domrepo.Metrics) *KafkaEventSink {
	return &KafkaEventSink{producer: producer, topic: topic, metrics: metrics}
}

func (s *KafkaEventSink) Emit(ctx context.Context, ev *models.Event) error {
	err := s.producer.Publish(ctx, s.topic, []byte(ev.ProductID), map[string]interface{}{
		"trigger":    ev.Trigger,
		"product_id": ev.ProductID,
		"timestamp":  ev.Timestamp.UTC(),
		"data":       ev.Payload,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError("kafka_emit")
		}
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordEventEmitted("kafka", ev.Trigger)
	}
	return nil
}

func (s *KafkaEventSink) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}

var _ domrepo.EventSink = (*KafkaEventSink)(nil)
