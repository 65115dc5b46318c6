//go:build wireinject
// +build wireinject

package di

import (
	"StockPilot/pkg/config"
	"StockPilot/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideSeriesStore,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,

		// Repositories
		ProvideForecastStore,
		ProvideRuleRegistry,
		ProvideOrderStore,
		ProvideEventSink,

		// Domain services
		ProvideForecaster,
		ProvideAccuracyTracker,
		ProvideTriggerEvaluator,
		ProvideOrderFactory,

		// Queueing
		ProvideQueuePublisher,
		ProvideDispatchQueue,
		ProvideSupplierDispatcher,
		ProvideDemandHandler,

		// Use cases
		ProvideSeriesUseCase,
		ProvideForecastUseCase,
		ProvideReconcileUseCase,
		ProvideRulesUseCase,
		ProvideAnalyticsUseCase,
		ProvideTriggerUseCase,
		ProvideOrderUseCase,

		// HTTP surface
		ProvideBytesCache,
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
