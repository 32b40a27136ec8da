//go:build wireinject
// +build wireinject

package di

import (
	"MarketBoard/pkg/config"
	"MarketBoard/pkg/server"

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
		ProvideCacheService,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideHistoryStore,
		ProvidePublisher,

		// Scraping
		ProvideFetcher,
		ProvidePipeline,
		ProvideSources,
		ProvideSnapshotStore,

		// Use cases
		ProvideDashboard,
		ProvideRefresher,
		ProvideRefreshEventHandler,

		// Delivery
		ProvideHub,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
