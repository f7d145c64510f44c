package trading212

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
		ServiceID: {Limit: 1000, Window: time.Minute},
	})
}

func TestFetchPositions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/equity/portfolio", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"ticker":"AAPL","quantity":10,"averagePrice":150,"currentPrice":160},
			{"ticker":"TSLA","quantity":2,"averagePrice":200,"currentPrice":190}
		]`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, 1, openLimiter(), logger.Nop())
	positions, err := c.FetchPositions(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.InDelta(t, 1600.0, positions[0].MarketValue, 1e-9)
	assert.InDelta(t, 100.0, positions[0].UnrealizedPnL, 1e-9)
	assert.InDelta(t, -20.0, positions[1].UnrealizedPnL, 1e-9)
}

func TestFetchPositionsAppliesConversion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"ticker":"AAPL","quantity":2,"averagePrice":100,"currentPrice":100}]`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, 0.5, openLimiter(), logger.Nop())
	positions, err := c.FetchPositions(context.Background(), "default")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, positions[0].AveragePrice, 1e-9)
	assert.InDelta(t, 100.0, positions[0].MarketValue, 1e-9)
}

func TestFetchPositionsMissingFieldIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"ticker":"AAPL","quantity":10}]`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, 1, openLimiter(), logger.Nop())
	_, err := c.FetchPositions(context.Background(), "default")
	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.ErrMalformed, fe.Kind)
}

func TestFetchPositionsStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   models.ErrorKind
	}{
		{http.StatusUnauthorized, models.ErrUnauthorized},
		{http.StatusForbidden, models.ErrUnauthorized},
		{http.StatusTooManyRequests, models.ErrRateLimited},
		{http.StatusNotFound, models.ErrNotFound},
		{http.StatusInternalServerError, models.ErrUnreachable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := New("k", srv.URL, 1, openLimiter(), logger.Nop())
		_, err := c.FetchPositions(context.Background(), "default")
		srv.Close()

		var fe *models.FetchError
		require.ErrorAs(t, err, &fe, "status %d", tc.status)
		assert.Equal(t, tc.kind, fe.Kind, "status %d", tc.status)
		assert.Equal(t, ServiceID, fe.Source)
	}
}

func TestLocalQuotaDenialSkipsNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(map[string]ratelimit.Quota{
		ServiceID: {Limit: 1, Window: time.Minute},
	}).WithClock(func() time.Time { return base })

	c := New("k", srv.URL, 1, limiter, logger.Nop())

	_, err := c.FetchPositions(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	_, err = c.FetchPositions(context.Background(), "default")
	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, models.ErrRateLimited, fe.Kind)
	assert.Equal(t, time.Minute, fe.RetryAfter)
	assert.Equal(t, 1, hits, "denied call must not reach the server")
}

func TestFetchAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/equity/account/info":
			_, _ = w.Write([]byte(`{"id":12345,"currencyCode":"EUR"}`))
		case "/equity/account/cash":
			_, _ = w.Write([]byte(`{"free":250.5,"invested":1500,"total":1750.5,"result":42.1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New("k", srv.URL, 1, openLimiter(), logger.Nop())
	account, err := c.FetchAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12345), account.AccountID)
	assert.Equal(t, "EUR", account.Currency)
	assert.InDelta(t, 250.5, account.FreeCash, 1e-9)
	assert.InDelta(t, 1750.5, account.TotalValue, 1e-9)
	assert.InDelta(t, 42.1, account.ResultPnL, 1e-9)
}
