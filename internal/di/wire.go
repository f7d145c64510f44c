//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/franciiscocg/Trading212/internal/usecase"
	"github.com/franciiscocg/Trading212/pkg/config"
	"github.com/franciiscocg/Trading212/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideLimiter,
		ProvideCache,

		// Infrastructure clients
		ProvidePostgresPool,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// External sources
		ProvideBrokerage,
		ProvideNews,
		ProvideScorer,

		// Repositories
		ProvideGateway,
		ProvideHistory,
		ProvidePublisher,

		// Use cases and serving layer
		ProvideHub,
		ProvidePipeline,
		ProvideAdvisor,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil, nil
}

// InitializePipeline wires the aggregation pipeline without the HTTP
// serving layer, for the periodic sync worker.
func InitializePipeline(cfg *config.Config) (*usecase.AggregationPipeline, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideLimiter,
		ProvideCache,
		ProvidePostgresPool,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideBrokerage,
		ProvideNews,
		ProvideScorer,
		ProvideGateway,
		ProvideHistory,
		ProvidePublisher,
		ProvideHub,
		ProvidePipeline,
	)
	return nil, nil, nil
}
