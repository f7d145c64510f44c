package repository

import (
	"context"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

// BrokerageClient fetches account data from the brokerage API.
// Implementations consult their rate limiter before any network call and
// never cache; cache policy belongs to the pipeline.
type BrokerageClient interface {
	FetchPositions(ctx context.Context, userID string) ([]models.PositionRecord, error)
	FetchAccount(ctx context.Context) (*models.AccountSummary, error)
}

// NewsClient fetches recent articles for a symbol.
type NewsClient interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
}

// SentimentScorer computes a dual sentiment estimate over a batch of texts.
type SentimentScorer interface {
	Score(symbol string, texts []string) models.SentimentRecord
}

// PersistenceGateway stores and reads portfolio snapshots. Write failures
// are reported as storage errors but never invalidate a computed result.
type PersistenceGateway interface {
	Write(ctx context.Context, result *models.AggregateResult) error
	ReadLatest(ctx context.Context, userID string) (*models.AggregateResult, error)
}

// SentimentHistory appends per-run sentiment rows to a history store.
type SentimentHistory interface {
	Append(ctx context.Context, runID string, records []models.SentimentRecord) error
}

// EventPublisher announces completed sync runs to downstream consumers.
type EventPublisher interface {
	PublishSync(ctx context.Context, result *models.AggregateResult) error
	Close() error
}

// Metrics records pipeline and source observability figures.
type Metrics interface {
	RecordPipelineRun(status string)
	RecordPipelineDuration(seconds float64)
	RecordSourceError(source, kind string)
	RecordCacheHit(hit bool)
	RecordRateLimited(service string)
}
