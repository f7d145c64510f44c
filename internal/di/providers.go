package di

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/franciiscocg/Trading212/internal/domain/repository"
	"github.com/franciiscocg/Trading212/internal/handler/api"
	"github.com/franciiscocg/Trading212/internal/handler/ws"
	internalrepo "github.com/franciiscocg/Trading212/internal/repository"
	"github.com/franciiscocg/Trading212/internal/service/cache"
	"github.com/franciiscocg/Trading212/internal/service/newsapi"
	"github.com/franciiscocg/Trading212/internal/service/ratelimit"
	"github.com/franciiscocg/Trading212/internal/service/sentiment"
	"github.com/franciiscocg/Trading212/internal/service/trading212"
	"github.com/franciiscocg/Trading212/internal/usecase"
	pkgch "github.com/franciiscocg/Trading212/pkg/clickhouse"
	"github.com/franciiscocg/Trading212/pkg/config"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	pkgkafka "github.com/franciiscocg/Trading212/pkg/kafka"
	"github.com/franciiscocg/Trading212/pkg/logger"
	"github.com/franciiscocg/Trading212/pkg/metrics"
	"github.com/franciiscocg/Trading212/pkg/postgres"
	"github.com/franciiscocg/Trading212/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideLimiter creates the shared rate limiter with per-service quotas.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(map[string]ratelimit.Quota{
		trading212.ServiceID: {Limit: cfg.Trading212.QuotaLimit, Window: cfg.Trading212.QuotaWindow},
		newsapi.ServiceID:    {Limit: cfg.News.QuotaLimit, Window: cfg.News.QuotaWindow},
	})
}

// ProvideCache selects the sentiment cache backend.
func ProvideCache(cfg *config.Config) (cache.ResultCache, func(), error) {
	if cfg.Cache.Backend == "redis" {
		rc, err := cache.NewRedisCache(
			cfg.Cache.Redis.Addr,
			cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB,
			cfg.Cache.Redis.Prefix,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	return cache.NewMemoryCache(), func() {}, nil
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBrokerage creates the Trading212 client.
func ProvideBrokerage(cfg *config.Config, limiter *ratelimit.Limiter, log *logger.Logger) repository.BrokerageClient {
	return trading212.New(cfg.Trading212.APIKey, cfg.Trading212.BaseURL, cfg.Trading212.Conversion, limiter, log)
}

// ProvideNews creates the NewsAPI client.
func ProvideNews(cfg *config.Config, limiter *ratelimit.Limiter, log *logger.Logger) repository.NewsClient {
	return newsapi.New(cfg.News.APIKey, cfg.News.BaseURL, limiter, log)
}

// ProvideScorer creates the dual sentiment scorer.
func ProvideScorer() repository.SentimentScorer {
	return sentiment.NewScorer()
}

// ProvidePostgresPool connects to Postgres.
func ProvidePostgresPool(cfg *config.Config) (*pgxpool.Pool, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}

// ProvideGateway creates the snapshot store and initializes its schema.
func ProvideGateway(pool *pgxpool.Pool) (repository.PersistenceGateway, error) {
	store := internalrepo.NewPostgresSnapshotStore(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideClickHouseClient creates the ClickHouse client, or nil when the
// history store is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.New(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithDialTimeout(cfg.ClickHouse.DialTimeout),
		pkgch.WithReadTimeout(cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaDDL()); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideHistory creates the sentiment history store, or nil when disabled.
func ProvideHistory(client *pkgch.Client) repository.SentimentHistory {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseSentimentHistory(client.DB())
}

// ProvideKafkaProducer creates the Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers...),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvidePublisher creates the sync event publisher, or nil when disabled.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSyncPublisher(producer, cfg.Kafka.Topic)
}

// ProvideHub creates the WebSocket hub.
func ProvideHub(log *logger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvidePipeline assembles the aggregation pipeline.
func ProvidePipeline(
	cfg *config.Config,
	brokerage repository.BrokerageClient,
	news repository.NewsClient,
	scorer repository.SentimentScorer,
	c cache.ResultCache,
	gateway repository.PersistenceGateway,
	history repository.SentimentHistory,
	publisher repository.EventPublisher,
	hub *ws.Hub,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.AggregationPipeline {
	deps := usecase.PipelineDeps{
		Brokerage: brokerage,
		News:      news,
		Scorer:    scorer,
		Cache:     c,
		Gateway:   gateway,
		History:   history,
		Publisher: publisher,
		Notifier:  hub,
		Metrics:   m,
		Logger:    log,
	}
	return usecase.NewAggregationPipeline(deps, cfg.Pipeline.Workers, cfg.News.ArticleLimit, cfg.Sentiment.CacheTTL)
}

// ProvideAdvisor creates the optional AI advisor.
func ProvideAdvisor(cfg *config.Config, log *logger.Logger) (*usecase.Advisor, error) {
	return usecase.NewAdvisor(context.Background(), cfg.Advisor.APIKey, cfg.Advisor.Model, log)
}

// ProvideHandler creates the REST handler.
func ProvideHandler(
	log *logger.Logger,
	pipeline *usecase.AggregationPipeline,
	advisor *usecase.Advisor,
	limiter *ratelimit.Limiter,
	c cache.ResultCache,
) *api.PortfolioHandler {
	return api.NewPortfolioHandler(log, pipeline, advisor, limiter, c)
}

// ProvideHTTPServer creates the HTTP server with REST and WebSocket routes.
func ProvideHTTPServer(cfg *config.Config, handler *api.PortfolioHandler, hub *ws.Hub) *xhttp.Server {
	return xhttp.NewServer(xhttp.Handlers{handler, hub},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithAPIKey(cfg.Server.APIKey),
	)
}

// ProvideApp creates the application.
func ProvideApp(cfg *config.Config, log *logger.Logger, httpServer *xhttp.Server) *server.App {
	return server.New(cfg, log, httpServer)
}
