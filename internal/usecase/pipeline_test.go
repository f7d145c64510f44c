package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/service/cache"
	"github.com/franciiscocg/Trading212/pkg/logger"
)

type fakeBrokerage struct {
	positions []models.PositionRecord
	account   *models.AccountSummary
	posErr    error
	acctErr   error
}

func (f *fakeBrokerage) FetchPositions(_ context.Context, _ string) ([]models.PositionRecord, error) {
	if f.posErr != nil {
		return nil, f.posErr
	}
	out := make([]models.PositionRecord, len(f.positions))
	copy(out, f.positions)
	for i := range out {
		out[i].Derive()
	}
	return out, nil
}

func (f *fakeBrokerage) FetchAccount(_ context.Context) (*models.AccountSummary, error) {
	if f.acctErr != nil {
		return nil, f.acctErr
	}
	return f.account, nil
}

type fakeNews struct {
	mu       sync.Mutex
	articles map[string][]models.NewsArticle
	errs     map[string]error
	calls    []string
}

func (f *fakeNews) FetchNews(_ context.Context, symbol string, _ int) ([]models.NewsArticle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.articles[symbol], nil
}

func (f *fakeNews) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type stubScorer struct{}

func (stubScorer) Score(symbol string, texts []string) models.SentimentRecord {
	return models.SentimentRecord{
		Symbol:       symbol,
		NewsCount:    len(texts),
		OverallScore: 0.25,
		ComputedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

type fakeGateway struct {
	mu     sync.Mutex
	writes []*models.AggregateResult
	err    error
}

func (f *fakeGateway) Write(_ context.Context, result *models.AggregateResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, result)
	return nil
}

func (f *fakeGateway) ReadLatest(_ context.Context, _ string) (*models.AggregateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return nil, models.NewFetchError("storage", models.ErrNotFound, errors.New("no snapshot"))
	}
	return f.writes[len(f.writes)-1], nil
}

type nopMetrics struct{}

func (nopMetrics) RecordPipelineRun(string)         {}
func (nopMetrics) RecordPipelineDuration(float64)   {}
func (nopMetrics) RecordSourceError(string, string) {}
func (nopMetrics) RecordCacheHit(bool)              {}
func (nopMetrics) RecordRateLimited(string)         {}

func newTestPipeline(brokerage *fakeBrokerage, news *fakeNews, gw *fakeGateway) (*AggregationPipeline, *cache.MemoryCache) {
	c := cache.NewMemoryCache()
	deps := PipelineDeps{
		Brokerage: brokerage,
		News:      news,
		Scorer:    stubScorer{},
		Cache:     c,
		Metrics:   nopMetrics{},
		Logger:    logger.Nop(),
	}
	if gw != nil {
		deps.Gateway = gw
	}
	return NewAggregationPipeline(deps, 4, 5, 24*time.Hour), c
}

func articles(titles ...string) []models.NewsArticle {
	out := make([]models.NewsArticle, 0, len(titles))
	for _, t := range titles {
		out = append(out, models.NewsArticle{Title: t})
	}
	return out
}

func TestRefreshEndToEnd(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{
			{Symbol: "AAPL", Quantity: 10, AveragePrice: 150, CurrentPrice: 160},
		},
		account: &models.AccountSummary{Currency: "EUR", TotalValue: 1600},
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{
		"AAPL": articles("a", "b", "c", "d", "e"),
	}}
	gw := &fakeGateway{}
	p, c := newTestPipeline(brokerage, news, gw)

	result, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Errors)

	require.Len(t, result.Positions, 1)
	pos := result.Positions[0]
	assert.InDelta(t, 1600.0, pos.MarketValue, 1e-9)
	assert.InDelta(t, 100.0, pos.UnrealizedPnL, 1e-9)
	assert.InDelta(t, 100.0/1500.0*100, pos.UnrealizedPnLPct, 1e-9)

	rec, ok := result.Sentiments["AAPL"]
	require.True(t, ok)
	assert.Equal(t, 5, rec.NewsCount)

	require.NotNil(t, result.Account)
	assert.Equal(t, "EUR", result.Account.Currency)

	gw.mu.Lock()
	assert.Len(t, gw.writes, 1)
	gw.mu.Unlock()

	_, cached := c.Get("AAPL")
	assert.True(t, cached)
}

func TestRefreshBrokerageFailureAborts(t *testing.T) {
	brokerage := &fakeBrokerage{
		posErr: models.NewFetchError("trading212", models.ErrUnauthorized, errors.New("bad key")),
	}
	gw := &fakeGateway{}
	p, _ := newTestPipeline(brokerage, &fakeNews{}, gw)

	result, err := p.Refresh(context.Background(), "default", false)
	require.Error(t, err)
	assert.Nil(t, result)

	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.ErrUnauthorized, fe.Kind)

	gw.mu.Lock()
	assert.Empty(t, gw.writes)
	gw.mu.Unlock()
}

func TestRefreshPartialNewsFailure(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{
			{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1},
			{Symbol: "TSLA", Quantity: 1, AveragePrice: 1, CurrentPrice: 1},
		},
	}
	news := &fakeNews{
		articles: map[string][]models.NewsArticle{"AAPL": articles("up")},
		errs: map[string]error{
			"TSLA": models.NewFetchError("newsapi", models.ErrRateLimited, errors.New("quota exhausted")),
		},
	}
	p, _ := newTestPipeline(brokerage, news, nil)

	result, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)

	assert.Len(t, result.Sentiments, 1)
	_, ok := result.Sentiments["AAPL"]
	assert.True(t, ok)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrRateLimited, result.Errors[0].Kind)
	assert.Equal(t, "newsapi", result.Errors[0].Source)
}

func TestRefreshAccountFailureIsRecorded(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1}},
		acctErr:   models.NewFetchError("trading212", models.ErrUnreachable, errors.New("timeout")),
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{"AAPL": articles("x")}}
	p, _ := newTestPipeline(brokerage, news, nil)

	result, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)
	assert.Nil(t, result.Account)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrUnreachable, result.Errors[0].Kind)
	assert.Len(t, result.Sentiments, 1)
}

func TestRefreshCacheHitSkipsNewsFetch(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1}},
	}
	news := &fakeNews{}
	p, c := newTestPipeline(brokerage, news, nil)

	cached := models.SentimentRecord{Symbol: "AAPL", NewsCount: 3, OverallScore: 0.5}
	c.Put("AAPL", cached, time.Hour)

	result, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)
	assert.Equal(t, 0, news.callCount())
	assert.Equal(t, cached, result.Sentiments["AAPL"])
}

func TestRefreshForceBypassesCache(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1}},
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{"AAPL": articles("fresh")}}
	p, c := newTestPipeline(brokerage, news, nil)

	c.Put("AAPL", models.SentimentRecord{Symbol: "AAPL", OverallScore: 0.9}, time.Hour)

	result, err := p.Refresh(context.Background(), "default", true)
	require.NoError(t, err)
	assert.Equal(t, 1, news.callCount())
	assert.Equal(t, 1, result.Sentiments["AAPL"].NewsCount)
}

func TestRefreshStorageFailureStillReturnsResult(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1}},
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{"AAPL": articles("x")}}
	gw := &fakeGateway{err: errors.New("connection refused")}
	p, _ := newTestPipeline(brokerage, news, gw)

	result, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)
	require.NotNil(t, result)

	found := false
	for _, se := range result.Errors {
		if se.Kind == models.ErrStorageFailure {
			found = true
		}
	}
	assert.True(t, found, "expected a storage_failure entry")
	assert.Len(t, result.Sentiments, 1)
}

func TestRefreshDeduplicatesSymbols(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{
			{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1},
			{Symbol: "AAPL", Quantity: 2, AveragePrice: 1, CurrentPrice: 1},
		},
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{"AAPL": articles("x")}}
	p, _ := newTestPipeline(brokerage, news, nil)

	result, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)
	assert.Equal(t, 1, news.callCount())
	assert.Len(t, result.Positions, 2)
	assert.Len(t, result.Sentiments, 1)
}

func TestRefreshSingleWorkerPreservesOrder(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{
			{Symbol: "TSLA", Quantity: 1, AveragePrice: 1, CurrentPrice: 1},
			{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1},
			{Symbol: "AMZN", Quantity: 1, AveragePrice: 1, CurrentPrice: 1},
		},
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{
		"TSLA": articles("x"), "AAPL": articles("y"), "AMZN": articles("z"),
	}}
	c := cache.NewMemoryCache()
	p := NewAggregationPipeline(PipelineDeps{
		Brokerage: brokerage,
		News:      news,
		Scorer:    stubScorer{},
		Cache:     c,
		Metrics:   nopMetrics{},
		Logger:    logger.Nop(),
	}, 1, 5, time.Hour)

	_, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "AAPL", "AMZN"}, news.calls)
}

func TestLatestReadsLastWrite(t *testing.T) {
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{{Symbol: "AAPL", Quantity: 1, AveragePrice: 1, CurrentPrice: 1}},
	}
	news := &fakeNews{articles: map[string][]models.NewsArticle{"AAPL": articles("x")}}
	gw := &fakeGateway{}
	p, _ := newTestPipeline(brokerage, news, gw)

	written, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)

	latest, err := p.Latest(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, written.RunID, latest.RunID)
}

func TestCachedSentimentNeverFetches(t *testing.T) {
	news := &fakeNews{articles: map[string][]models.NewsArticle{"NVDA": articles("a", "b")}}
	brokerage := &fakeBrokerage{
		positions: []models.PositionRecord{{Symbol: "NVDA", Quantity: 1, AveragePrice: 1, CurrentPrice: 1}},
	}
	p, _ := newTestPipeline(brokerage, news, nil)

	_, ok := p.CachedSentiment("NVDA")
	assert.False(t, ok, "cold symbol must miss")
	assert.Equal(t, 0, news.callCount())

	_, err := p.Refresh(context.Background(), "default", false)
	require.NoError(t, err)

	rec, ok := p.CachedSentiment("NVDA")
	require.True(t, ok)
	assert.Equal(t, 2, rec.NewsCount)
	assert.Equal(t, 1, news.callCount())
}
