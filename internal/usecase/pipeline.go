package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/domain/repository"
	"github.com/franciiscocg/Trading212/internal/service/cache"
	"github.com/franciiscocg/Trading212/pkg/logger"
)

// Notifier pushes sync events to connected dashboard clients.
type Notifier interface {
	NotifySync(event models.SyncEvent)
}

// PipelineDeps bundles the collaborators of the aggregation pipeline.
// Gateway, History, Publisher and Notifier may be nil; the pipeline
// degrades to in-memory operation without them.
type PipelineDeps struct {
	Brokerage repository.BrokerageClient
	News      repository.NewsClient
	Scorer    repository.SentimentScorer
	Cache     cache.ResultCache
	Gateway   repository.PersistenceGateway
	History   repository.SentimentHistory
	Publisher repository.EventPublisher
	Notifier  Notifier
	Metrics   repository.Metrics
	Logger    *logger.Logger
}

// AggregationPipeline runs one full portfolio sync: positions and account
// from the brokerage, then cached-or-fresh sentiment per distinct symbol,
// merged into a single result.
type AggregationPipeline struct {
	deps         PipelineDeps
	workers      int
	articleLimit int
	cacheTTL     time.Duration
	now          func() time.Time
}

func NewAggregationPipeline(deps PipelineDeps, workers, articleLimit int, cacheTTL time.Duration) *AggregationPipeline {
	if workers < 1 {
		workers = 1
	}
	if articleLimit < 1 {
		articleLimit = 5
	}
	return &AggregationPipeline{
		deps:         deps,
		workers:      workers,
		articleLimit: articleLimit,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}

// WithClock overrides the time source for tests.
func (p *AggregationPipeline) WithClock(now func() time.Time) *AggregationPipeline {
	p.now = now
	return p
}

// Refresh executes a sync run. A brokerage position failure aborts the run;
// news and sentiment failures are recorded per symbol and never abort it.
// Persistence is best effort: a storage failure is recorded on the result
// but the computed result is still returned.
func (p *AggregationPipeline) Refresh(ctx context.Context, userID string, force bool) (*models.AggregateResult, error) {
	start := p.now()

	positions, err := p.deps.Brokerage.FetchPositions(ctx, userID)
	if err != nil {
		p.recordSourceError(err)
		p.recordRun("failed", start)
		return nil, err
	}

	result := &models.AggregateResult{
		RunID:      uuid.NewString(),
		UserID:     userID,
		Positions:  positions,
		Sentiments: make(map[string]models.SentimentRecord, len(positions)),
	}

	account, err := p.deps.Brokerage.FetchAccount(ctx)
	if err != nil {
		p.recordSourceError(err)
		result.Errors = append(result.Errors, toSourceError(err))
	} else {
		result.Account = account
	}

	p.enrichSentiment(ctx, result, force)
	result.CompletedAt = p.now()

	p.persist(ctx, result)

	status := "ok"
	if len(result.Errors) > 0 {
		status = "partial"
	}
	p.recordRun(status, start)

	p.deps.Logger.Info("sync run completed",
		logger.String("run_id", result.RunID),
		logger.String("user_id", userID),
		logger.Int("positions", len(result.Positions)),
		logger.Int("sentiments", len(result.Sentiments)),
		logger.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// enrichSentiment fills result.Sentiments for each distinct symbol using a
// bounded worker pool. Cache hits skip the news fetch entirely unless force
// is set.
func (p *AggregationPipeline) enrichSentiment(ctx context.Context, result *models.AggregateResult, force bool) {
	symbols := result.SymbolsInOrder()
	if len(symbols) == 0 {
		return
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan string)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				rec, err := p.symbolSentiment(ctx, symbol, force)
				mu.Lock()
				if err != nil {
					result.Errors = append(result.Errors, toSourceError(err))
				} else {
					result.Sentiments[symbol] = rec
				}
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

func (p *AggregationPipeline) symbolSentiment(ctx context.Context, symbol string, force bool) (models.SentimentRecord, error) {
	if !force {
		if rec, ok := p.deps.Cache.Get(symbol); ok {
			p.deps.Metrics.RecordCacheHit(true)
			return rec, nil
		}
		p.deps.Metrics.RecordCacheHit(false)
	}

	articles, err := p.deps.News.FetchNews(ctx, symbol, p.articleLimit)
	if err != nil {
		p.recordSourceError(err)
		return models.SentimentRecord{}, err
	}

	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		titles = append(titles, a.Title)
	}

	rec := p.deps.Scorer.Score(symbol, titles)
	p.deps.Cache.Put(symbol, rec, p.cacheTTL)
	return rec, nil
}

// CachedSentiment is a read-only lookup; it never fetches and never
// consumes quota.
func (p *AggregationPipeline) CachedSentiment(symbol string) (models.SentimentRecord, bool) {
	return p.deps.Cache.Get(symbol)
}

// Latest returns the most recent persisted result for the user.
func (p *AggregationPipeline) Latest(ctx context.Context, userID string) (*models.AggregateResult, error) {
	if p.deps.Gateway == nil {
		return nil, models.NewFetchError("storage", models.ErrNotFound, errors.New("no persistence configured"))
	}
	return p.deps.Gateway.ReadLatest(ctx, userID)
}

func (p *AggregationPipeline) persist(ctx context.Context, result *models.AggregateResult) {
	if p.deps.Gateway != nil {
		if err := p.deps.Gateway.Write(ctx, result); err != nil {
			p.deps.Logger.Error("snapshot write failed", logger.Error(err), logger.String("run_id", result.RunID))
			result.Errors = append(result.Errors, models.SourceError{
				Source:  "storage",
				Kind:    models.ErrStorageFailure,
				Message: err.Error(),
			})
		}
	}

	if p.deps.History != nil && len(result.Sentiments) > 0 {
		records := make([]models.SentimentRecord, 0, len(result.Sentiments))
		for _, symbol := range result.SymbolsInOrder() {
			if rec, ok := result.Sentiments[symbol]; ok {
				records = append(records, rec)
			}
		}
		if err := p.deps.History.Append(ctx, result.RunID, records); err != nil {
			p.deps.Logger.Error("sentiment history append failed", logger.Error(err), logger.String("run_id", result.RunID))
		}
	}

	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.PublishSync(ctx, result); err != nil {
			p.deps.Logger.Error("sync event publish failed", logger.Error(err), logger.String("run_id", result.RunID))
		}
	}

	if p.deps.Notifier != nil {
		p.deps.Notifier.NotifySync(result.Event())
	}
}

func (p *AggregationPipeline) recordRun(status string, start time.Time) {
	p.deps.Metrics.RecordPipelineRun(status)
	p.deps.Metrics.RecordPipelineDuration(p.now().Sub(start).Seconds())
}

func (p *AggregationPipeline) recordSourceError(err error) {
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		return
	}
	p.deps.Metrics.RecordSourceError(fe.Source, string(fe.Kind))
	if fe.Kind == models.ErrRateLimited {
		p.deps.Metrics.RecordRateLimited(fe.Source)
	}
}

func toSourceError(err error) models.SourceError {
	var fe *models.FetchError
	if errors.As(err, &fe) {
		return fe.ToSourceError()
	}
	return models.SourceError{Source: "unknown", Kind: models.ErrUnreachable, Message: err.Error()}
}
