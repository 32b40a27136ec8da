package di

import (
	"context"
	"fmt"
	"time"

	"MarketBoard/internal/domain/repository"
	"MarketBoard/internal/handler/api"
	internalrepo "MarketBoard/internal/repository"
	"MarketBoard/internal/scrape"
	"MarketBoard/internal/snapshot"
	"MarketBoard/internal/usecase"
	"MarketBoard/internal/ws"
	"MarketBoard/pkg/cache"
	pkgch "MarketBoard/pkg/clickhouse"
	"MarketBoard/pkg/config"
	pkghttp "MarketBoard/pkg/http"
	pkgkafka "MarketBoard/pkg/kafka"
	applogger "MarketBoard/pkg/logger"
	"MarketBoard/pkg/metrics"
	"MarketBoard/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	log, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideFetcher creates the HTTP page fetcher.
func ProvideFetcher(cfg *config.Config) scrape.Fetcher {
	opts := []scrape.HTTPFetcherOption{}
	if cfg.Scrape.Timeout > 0 {
		opts = append(opts, scrape.WithTimeout(cfg.Scrape.Timeout.Std()))
	}
	if cfg.Scrape.MaxBodyBytes > 0 {
		opts = append(opts, scrape.WithMaxBody(cfg.Scrape.MaxBodyBytes))
	}
	return scrape.NewHTTPFetcher(opts...)
}

// ProvidePipeline creates the scrape pipeline.
func ProvidePipeline(fetcher scrape.Fetcher, log *applogger.Logger, m repository.Metrics) *scrape.Pipeline {
	return scrape.NewPipeline(fetcher, log, m)
}

// ProvideCacheService creates the snapshot persistence backend. The in-process
// snapshot store is always present; this backend only adds cross-restart
// durability, so the memory backend maps to no backend at all.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return nil, nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix("marketboard"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}

	if cfg.Cache.Backend == "layered" {
		return cache.NewLayeredCache(redisCache), nil
	}
	return redisCache, nil
}

// ProvideSnapshotStore creates the snapshot store, with write-through
// persistence when a cache backend is configured.
func ProvideSnapshotStore(log *applogger.Logger, backend cache.Service) *snapshot.Store {
	if backend == nil {
		return snapshot.NewStore(log)
	}
	return snapshot.NewStore(log, snapshot.WithBackend(backend))
}

// ProvideSources builds the configured source set, honoring per-source
// disable switches and TTL overrides.
func ProvideSources(cfg *config.Config) []*scrape.Source {
	all := usecase.Sources()
	out := make([]*scrape.Source, 0, len(all))
	for _, src := range all {
		if cfg.SourceDisabled(src.ID) {
			continue
		}
		src.TTL = cfg.SourceTTL(src.ID, src.TTL)
		out = append(out, src)
	}
	return out
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when quote
// history is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}

	ch := cfg.History.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout.Std(), ch.ReadTimeout.Std(), ch.WriteTimeout.Std()),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime.Std()),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideHistoryStore creates ClickHouse-backed quote history, or nil when
// disabled. The schema is applied on startup.
func ProvideHistoryStore(chClient *pkgch.Client, cfg *config.Config) (repository.HistoryStore, error) {
	if chClient == nil {
		return nil, nil
	}

	store := internalrepo.NewClickHouseHistory(chClient.DB(), cfg.History.ClickHouse.Database+"."+cfg.History.Table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("history schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger.Std()),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout.Std(), cfg.Kafka.Producer.ReadTimeout.Std()),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the refresh event publisher, or nil when no
// producer is configured.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config, log *applogger.Logger) repository.Publisher {
	if producer == nil {
		return nil
	}
	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	// Repeated error logs are aggregated and flushed over the same producer
	// instead of flooding the topic line by line.
	log.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.Topic + ".logs",
		Publisher:      pub,
	})
	return pub
}

// ProvideKafkaConsumer creates the refresh event consumer, or nil when Kafka
// is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.Consumer.GroupID == "" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerAutoOffsetReset("latest"),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin.Std(), cfg.Kafka.Consumer.BackoffMax.Std()),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideHub creates the WebSocket hub.
func ProvideHub(log *applogger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideRefreshEventHandler creates the consumer handler that forwards
// refresh events to WebSocket clients, or nil when Kafka is disabled.
func ProvideRefreshEventHandler(cfg *config.Config, hub *ws.Hub, log *applogger.Logger) pkgkafka.MessageHandler {
	if !cfg.Kafka.Enabled {
		return nil
	}
	return usecase.NewRefreshEventHandler(cfg.Kafka.Topic, hub, log)
}

// ProvideDashboard creates the dashboard aggregator.
func ProvideDashboard(
	pipeline *scrape.Pipeline,
	store *snapshot.Store,
	sources []*scrape.Source,
	m repository.Metrics,
	log *applogger.Logger,
	publisher repository.Publisher,
	history repository.HistoryStore,
) *usecase.Dashboard {
	opts := []usecase.DashboardOption{}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	if history != nil {
		opts = append(opts, usecase.WithHistory(history))
	}
	return usecase.NewDashboard(pipeline, store, sources, m, log, opts...)
}

// ProvideRefresher creates the background refresh loop.
func ProvideRefresher(dash *usecase.Dashboard, cfg *config.Config, log *applogger.Logger) *usecase.Refresher {
	return usecase.NewRefresher(dash, cfg.Scrape.RefreshInterval.Std(), log)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(log *applogger.Logger, dash *usecase.Dashboard, hub *ws.Hub, history repository.HistoryStore) pkghttp.Handler {
	return api.NewDashboardEchoHandler(log, dash, hub, history)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	refresher *usecase.Refresher,
	hub *ws.Hub,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	publisher repository.Publisher,
	chClient *pkgch.Client,
	handler pkghttp.Handler,
) *server.App {
	app := server.New(cfg, log, refresher, hub, consumer, kh, publisher, chClient)
	app.SetHTTPHandler(handler)
	return app
}
