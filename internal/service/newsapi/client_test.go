package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/service/ratelimit"
	"github.com/franciiscocg/Trading212/pkg/logger"
)

func openLimiter() *ratelimit.Limiter {
	return ratelimit.New(map[string]ratelimit.Quota{
		ServiceID: {Limit: 1000, Window: time.Hour},
	})
}

func TestFetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "AAPL", q.Get("q"))
		assert.Equal(t, "5", q.Get("pageSize"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "news-key", q.Get("apiKey"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Apple surges","url":"http://a","source":{"name":"Reuters"},"publishedAt":"2025-06-01T10:00:00Z"},
			{"title":"","url":"http://b","source":{"name":"Skip"},"publishedAt":"2025-06-01T09:00:00Z"},
			{"title":"iPhone sales climb","url":"http://c","source":{"name":"AP"},"publishedAt":"2025-06-01T08:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := New("news-key", srv.URL, openLimiter(), logger.Nop())
	articles, err := c.FetchNews(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	require.Len(t, articles, 2, "empty titles are skipped")
	assert.Equal(t, "Apple surges", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "AP", articles[1].Source)
}

func TestFetchNewsCapsPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, openLimiter(), logger.Nop())
	articles, err := c.FetchNews(context.Background(), "AAPL", 50)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestFetchNewsTruncatesToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"title":"one"},{"title":"two"},{"title":"three"}
		]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, openLimiter(), logger.Nop())
	articles, err := c.FetchNews(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestFetchNewsErrorStatusIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","articles":[]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, openLimiter(), logger.Nop())
	_, err := c.FetchNews(context.Background(), "AAPL", 5)
	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.ErrMalformed, fe.Kind)
}

func TestFetchNewsUpstream429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("k", srv.URL, openLimiter(), logger.Nop())
	_, err := c.FetchNews(context.Background(), "AAPL", 5)
	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.ErrRateLimited, fe.Kind)
}

func TestFetchNewsDailyQuotaDenial(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"title":"x"}]}`))
	}))
	defer srv.Close()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(map[string]ratelimit.Quota{
		ServiceID: {Limit: 1, Window: 24 * time.Hour},
	}).WithClock(func() time.Time { return base })

	c := New("k", srv.URL, limiter, logger.Nop())

	_, err := c.FetchNews(context.Background(), "AAPL", 5)
	require.NoError(t, err)

	_, err = c.FetchNews(context.Background(), "TSLA", 5)
	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.ErrRateLimited, fe.Kind)
	assert.Equal(t, 24*time.Hour, fe.RetryAfter)
	assert.Equal(t, 1, hits)
}
