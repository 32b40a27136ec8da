// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"MarketBoard/pkg/config"
	"MarketBoard/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	fetcher := ProvideFetcher(cfg)
	metrics := ProvideMetrics()
	pipeline := ProvidePipeline(fetcher, logger, metrics)
	service, err := ProvideCacheService(cfg)
	if err != nil {
		return nil, err
	}
	store := ProvideSnapshotStore(logger, service)
	v := ProvideSources(cfg)
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	publisher := ProvidePublisher(producer, cfg, logger)
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	historyStore, err := ProvideHistoryStore(client, cfg)
	if err != nil {
		return nil, err
	}
	dashboard := ProvideDashboard(pipeline, store, v, metrics, logger, publisher, historyStore)
	refresher := ProvideRefresher(dashboard, cfg, logger)
	hub := ProvideHub(logger)
	consumer, err := ProvideKafkaConsumer(cfg)
	if err != nil {
		return nil, err
	}
	messageHandler := ProvideRefreshEventHandler(cfg, hub, logger)
	handler := ProvideHTTPHandler(logger, dashboard, hub, historyStore)
	app := ProvideApp(cfg, logger, refresher, hub, consumer, messageHandler, publisher, client, handler)
	return app, nil
}
