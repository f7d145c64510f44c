package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

func testClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestMemoryCacheExpiry(t *testing.T) {
	clock, advance := testClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewMemoryCache().WithClock(clock)

	rec := models.SentimentRecord{Symbol: "AAPL", NewsCount: 5, OverallScore: 0.42}
	c.Put("AAPL", rec, time.Hour)

	got, ok := c.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, rec, got)

	advance(time.Hour)
	_, ok = c.Get("AAPL")
	assert.False(t, ok, "entry at exactly ttl must be treated as missing")

	// lazily evicted
	st := c.Stats()
	assert.Equal(t, 0, st.Entries)
}

func TestMemoryCachePutOverwritesAndResetsAge(t *testing.T) {
	clock, advance := testClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	c := NewMemoryCache().WithClock(clock)

	c.Put("AAPL", models.SentimentRecord{Symbol: "AAPL", OverallScore: 0.1}, time.Hour)
	advance(50 * time.Minute)
	c.Put("AAPL", models.SentimentRecord{Symbol: "AAPL", OverallScore: 0.2}, time.Hour)
	advance(50 * time.Minute)

	got, ok := c.Get("AAPL")
	require.True(t, ok, "overwrite must reset stored_at")
	assert.Equal(t, 0.2, got.OverallScore)
}

func TestMemoryCacheClearPrefix(t *testing.T) {
	c := NewMemoryCache()
	c.Put("AAPL", models.SentimentRecord{Symbol: "AAPL"}, time.Hour)
	c.Put("AMZN", models.SentimentRecord{Symbol: "AMZN"}, time.Hour)
	c.Put("TSLA", models.SentimentRecord{Symbol: "TSLA"}, time.Hour)

	c.Clear("A")
	_, ok := c.Get("AAPL")
	assert.False(t, ok)
	_, ok = c.Get("AMZN")
	assert.False(t, ok)
	_, ok = c.Get("TSLA")
	assert.True(t, ok)

	c.Clear("")
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryCache()
	c.Put("AAPL", models.SentimentRecord{Symbol: "AAPL"}, time.Hour)
	c.Invalidate("AAPL")
	_, ok := c.Get("AAPL")
	assert.False(t, ok)
}

func TestMemoryCacheStats(t *testing.T) {
	c := NewMemoryCache()
	c.Put("AAPL", models.SentimentRecord{Symbol: "AAPL"}, time.Hour)

	_, _ = c.Get("AAPL")
	_, _ = c.Get("MSFT")

	st := c.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, 1, st.Entries)
}
