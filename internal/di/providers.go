package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "StockPilot/internal/domain/repository"
	domsvc "StockPilot/internal/domain/service"
	"StockPilot/internal/handler/api"
	internalrepo "StockPilot/internal/repository"
	icache "StockPilot/internal/service/cache"
	"StockPilot/internal/services/forecast"
	"StockPilot/internal/services/reorder"
	"StockPilot/internal/usecase"
	pkgch "StockPilot/pkg/clickhouse"
	"StockPilot/pkg/config"
	xhttp "StockPilot/pkg/http"
	pkgkafka "StockPilot/pkg/kafka"
	applogger "StockPilot/pkg/logger"
	pkgmetrics "StockPilot/pkg/metrics"
	pkgqueue "StockPilot/pkg/queue"
	"StockPilot/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return pkgmetrics.New()
}

// ProvideSeriesStore builds the demand history store selected by config.
// ClickHouse keeps the append-only series durable across restarts; memory is
// for development and tests.
func ProvideSeriesStore(cfg *config.Config, l *applogger.Logger) (domrepo.SeriesStore, error) {
	if cfg.Storage.Type != "clickhouse" {
		return internalrepo.NewMemorySeriesStore(), nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.Storage.Table
	if table == "" {
		table = cfg.ClickHouse.Database + ".demand_history"
	}
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			product_id String,
			date Date,
			demand Float64,
			sales Float64,
			price Float64,
			promotion Bool,
			external_factors Map(String, String),
			added_at DateTime64(3)
		) ENGINE=MergeTree ORDER BY (product_id, date)`, table),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	store := internalrepo.NewCHSeriesStore(client, table)
	store.SetLogger(l)
	return store, nil
}

// ProvideForecastStore keeps the single live forecast per product.
func ProvideForecastStore() domrepo.ForecastStore {
	return internalrepo.NewMemoryForecastStore()
}

// ProvideRuleRegistry keeps reorder rule configurations.
func ProvideRuleRegistry() domrepo.RuleRegistry {
	return internalrepo.NewMemoryRuleRegistry()
}

// ProvideOrderStore keeps purchase orders.
func ProvideOrderStore() domrepo.OrderStore {
	return internalrepo.NewMemoryOrderStore()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.Producer.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates the demand ingest consumer, or nil when Kafka
// is off.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.DemandTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewTraceHook())
	return consumer, nil
}

// ProvideDemandHandler registers the handler for the demand ingest topic.
func ProvideDemandHandler(cfg *config.Config, series domrepo.SeriesStore, metrics domrepo.Metrics) pkgkafka.MessageHandler {
	return usecase.NewKafkaDemandHandler(cfg.Kafka.DemandTopic, series, metrics)
}

// ProvideRedisClient creates the shared Redis client, or nil when Redis is off.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideEventSink fans events out to Kafka and webhook subscribers.
func ProvideEventSink(cfg *config.Config, producer *pkgkafka.Producer, metrics domrepo.Metrics, l *applogger.Logger) domrepo.EventSink {
	var sinks []domrepo.EventSink
	if producer != nil && cfg.Kafka.EventsTopic != "" {
		sinks = append(sinks, internalrepo.NewKafkaEventSink(producer, cfg.Kafka.EventsTopic, metrics))
	}
	if len(cfg.Webhook.Subscribers) > 0 {
		timeout := cfg.Webhook.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client := xhttp.NewClient(xhttp.WithTimeout(timeout))
		subs := make([]internalrepo.WebhookSubscriber, 0, len(cfg.Webhook.Subscribers))
		for _, s := range cfg.Webhook.Subscribers {
			subs = append(subs, internalrepo.WebhookSubscriber{
				Name:     s.Name,
				URL:      s.URL,
				Triggers: s.Events,
				Secret:   s.Secret,
			})
		}
		sinks = append(sinks, internalrepo.NewWebhookEventSink(client, subs, metrics, l))
	}
	return internalrepo.NewFanoutEventSink(sinks...)
}

// ProvideQueuePublisher creates the publisher side of the supplier dispatch
// queue, or nil when Redis is off.
func ProvideQueuePublisher(cfg *config.Config, l *applogger.Logger, cli *redis.Client) pkgqueue.QueueService {
	if cli == nil {
		return nil
	}
	q := pkgqueue.NewRedisPublisher(l, cli, pkgqueue.WithKeyPrefix(cfg.Queue.KeyPrefix))
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "error_logs",
		Publisher:      q,
	})
	return q
}

// ProvideDispatchQueue creates the worker side of the supplier dispatch
// queue, or nil when Redis is off.
func ProvideDispatchQueue(cfg *config.Config, l *applogger.Logger, cli *redis.Client) *pkgqueue.RedisQueue {
	if cli == nil {
		return nil
	}
	qc := &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	jobs := []pkgqueue.Job{usecase.NewSupplierDispatchJob(l)}
	return pkgqueue.NewRedisConsumer(l, qc, cli, jobs, pkgqueue.WithKeyPrefix(cfg.Queue.KeyPrefix))
}

// ProvideSupplierDispatcher hands approved orders to the dispatch queue.
func ProvideSupplierDispatcher(queue pkgqueue.QueueService, l *applogger.Logger) *usecase.SupplierDispatcher {
	return usecase.NewSupplierDispatcher(queue, l)
}

// ProvideForecaster creates the demand forecasting engine.
func ProvideForecaster(cfg *config.Config) domsvc.Forecaster {
	return forecast.NewEngine(
		forecast.WithWindow(cfg.Forecast.Window),
		forecast.WithMinRecords(cfg.Forecast.MinRecords),
		forecast.WithWeekendFactor(cfg.Forecast.WeekendFactor),
	)
}

// ProvideAccuracyTracker creates the forecast accuracy tracker.
func ProvideAccuracyTracker() domsvc.AccuracyTracker {
	return forecast.NewTracker()
}

// ProvideTriggerEvaluator creates the reorder trigger evaluator.
func ProvideTriggerEvaluator(cfg *config.Config) domsvc.TriggerEvaluator {
	months := make([]time.Month, 0, len(cfg.Reorder.SeasonalMonths))
	for _, m := range cfg.Reorder.SeasonalMonths {
		months = append(months, time.Month(m))
	}
	return reorder.NewEvaluator(
		reorder.WithSeasonalMonths(months),
		reorder.WithSeasonalMultiplier(cfg.Reorder.SeasonalMultiplier),
	)
}

// ProvideOrderFactory creates the purchase order factory.
func ProvideOrderFactory() domsvc.OrderFactory {
	return reorder.NewFactory()
}

// ProvideSeriesUseCase wires the demand history use case.
func ProvideSeriesUseCase(store domrepo.SeriesStore) *usecase.SeriesUseCase {
	return usecase.NewSeriesUseCase(store)
}

// ProvideForecastUseCase wires forecast generation.
func ProvideForecastUseCase(
	series domrepo.SeriesStore,
	forecasts domrepo.ForecastStore,
	engine domsvc.Forecaster,
	sink domrepo.EventSink,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(series, forecasts, engine, sink, metrics, l)
}

// ProvideReconcileUseCase wires the accuracy feedback loop.
func ProvideReconcileUseCase(forecasts domrepo.ForecastStore, tracker domsvc.AccuracyTracker, l *applogger.Logger) *usecase.ReconcileUseCase {
	return usecase.NewReconcileUseCase(forecasts, tracker, l)
}

// ProvideRulesUseCase wires reorder rule management.
func ProvideRulesUseCase(rules domrepo.RuleRegistry, l *applogger.Logger) *usecase.RulesUseCase {
	return usecase.NewRulesUseCase(rules, l)
}

// ProvideAnalyticsUseCase wires the analytics aggregations.
func ProvideAnalyticsUseCase(
	forecasts domrepo.ForecastStore,
	rules domrepo.RuleRegistry,
	orders domrepo.OrderStore,
	tracker domsvc.AccuracyTracker,
) *usecase.AnalyticsUseCase {
	return usecase.NewAnalyticsUseCase(forecasts, rules, orders, tracker)
}

// ProvideTriggerUseCase wires trigger evaluation and order creation.
func ProvideTriggerUseCase(
	rules domrepo.RuleRegistry,
	orders domrepo.OrderStore,
	forecasts domrepo.ForecastStore,
	evaluator domsvc.TriggerEvaluator,
	factory domsvc.OrderFactory,
	sink domrepo.EventSink,
	dispatcher *usecase.SupplierDispatcher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *usecase.TriggerUseCase {
	return usecase.NewTriggerUseCase(rules, orders, forecasts, evaluator, factory, sink, dispatcher, metrics, l)
}

// ProvideOrderUseCase wires the order approval workflow.
func ProvideOrderUseCase(
	orders domrepo.OrderStore,
	factory domsvc.OrderFactory,
	sink domrepo.EventSink,
	dispatcher *usecase.SupplierDispatcher,
	l *applogger.Logger,
) *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(orders, factory, sink, dispatcher, l)
}

// ProvideBytesCache creates the analytics response cache. Redis when
// available, in-process TTL cache otherwise, nil when caching is off.
func ProvideBytesCache(cfg *config.Config, cli *redis.Client) icache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cli != nil {
		return icache.NewRedisCacheFromClient(cli)
	}
	return icache.NewTTLCache()
}

// ProvideRouter assembles the HTTP API surface.
func ProvideRouter(
	l *applogger.Logger,
	series *usecase.SeriesUseCase,
	forecasts *usecase.ForecastUseCase,
	reconcile *usecase.ReconcileUseCase,
	rules *usecase.RulesUseCase,
	triggers *usecase.TriggerUseCase,
	orders *usecase.OrderUseCase,
	analytics *usecase.AnalyticsUseCase,
	cache icache.BytesCache,
	store domrepo.SeriesStore,
) *api.Router {
	fh := api.NewForecastEchoHandler(l, series, forecasts, reconcile, analytics)
	rh := api.NewReorderEchoHandler(l, rules, triggers, orders, analytics)
	if cache != nil {
		fh.SetCache(cache)
		rh.SetCache(cache)
	}
	return api.NewRouter(fh, rh, api.NewHealthHandler(store))
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	router *api.Router,
	series domrepo.SeriesStore,
	sink domrepo.EventSink,
	consumer *pkgkafka.Consumer,
	demand pkgkafka.MessageHandler,
	dispatchQ *pkgqueue.RedisQueue,
	redisCli *redis.Client,
) *server.App {
	return server.New(cfg, l, router, series, sink, consumer, demand, dispatchQ, redisCli)
}
