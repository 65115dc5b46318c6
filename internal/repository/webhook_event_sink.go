package repository

import (
	"context"
	"time"

	"StockPilot/internal/domain/models"
	domrepo "StockPilot/internal/domain/repository"
	pkghttp "StockPilot/pkg/http"
	applogger "StockPilot/pkg/logger"
)

// WebhookSubscriber is one registered receiver: events it subscribed to and
// the URL to POST them to. An empty trigger list subscribes to everything.
type WebhookSubscriber struct {
	Name     string
	URL      string
	Triggers []string
	Secret   string
}

// WebhookEventSink POSTs events to registered subscribers. Delivery is
// best-effort: a failing subscriber is logged and skipped, never retried.
type WebhookEventSink struct {
	client      *pkghttp.Client
	subscribers []WebhookSubscriber
	metrics     domrepo.Metrics
	l           *applogger.Logger
}

func NewWebhookEventSink(client *pkghttp.Client, subscribers []WebhookSubscriber, metrics domrepo.Metrics, l *applogger.Logger) *WebhookEventSink {
	return &WebhookEventSink{client: client, subscribers: subscribers, metrics: metrics, l: l}
}

func (s *WebhookEventSink) Emit(ctx context.Context, ev *models.Event) error {
	body := map[string]interface{}{
		"event":      ev.Trigger,
		"product_id": ev.ProductID,
		"timestamp":  ev.Timestamp.UTC().Format(time.RFC3339),
		"data":       ev.Payload,
	}

	for _, sub := range s.subscribers {
		if !sub.wants(ev.Trigger) {
			continue
		}

		headers := map[string]string{"Content-Type": "application/json"}
		if sub.Secret != "" {
			headers["X-Webhook-Secret"] = sub.Secret
		}
		err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
			Method:  pkghttp.MethodPost,
			URL:     sub.URL,
			Headers: headers,
			Body:    body,
		}, nil)
		if err != nil {
			if s.l != nil {
				s.l.Warn("webhook delivery failed",
					applogger.String("subscriber", sub.Name),
					applogger.String("trigger", ev.Trigger),
					applogger.Error(err),
				)
			}
			if s.metrics != nil {
				s.metrics.RecordError("webhook_delivery")
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordEventEmitted("webhook", ev.Trigger)
		}
	}
	return nil
}

func (s *WebhookEventSink) Close() error { return nil }

func (sub WebhookSubscriber) wants(trigger string) bool {
	if len(sub.Triggers) == 0 {
		return true
	}
	for _, t := range sub.Triggers {
		if t == trigger {
			return true
		}
	}
	return false
}

// FanoutEventSink emits to every configured sink; one sink's failure does not
// stop the others.
type FanoutEventSink struct {
	sinks []domrepo.EventSink
}

func NewFanoutEventSink(sinks ...domrepo.EventSink) *FanoutEventSink {
	return &FanoutEventSink{sinks: sinks}
}

func (s *FanoutEventSink) Emit(ctx context.Context, ev *models.Event) error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Emit(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *FanoutEventSink) Close() error {
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var (
	_ domrepo.EventSink = (*WebhookEventSink)(nil)
	_ domrepo.EventSink = (*FanoutEventSink)(nil)
)
