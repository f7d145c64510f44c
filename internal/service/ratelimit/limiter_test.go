package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(start time.Time) (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}
}

func TestLimiterBoundary(t *testing.T) {
	clock, advance := fakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(map[string]Quota{"news": {Limit: 3, Window: time.Minute}}).WithClock(clock)

	for i := 0; i < 3; i++ {
		d := l.TryAcquire("news")
		require.True(t, d.Allowed, "call %d should be allowed", i+1)
	}

	d := l.TryAcquire("news")
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)

	advance(time.Minute)
	d = l.TryAcquire("news")
	assert.True(t, d.Allowed)
}

func TestLimiterRetryAfterShrinks(t *testing.T) {
	clock, advance := fakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(map[string]Quota{"brokerage": {Limit: 1, Window: time.Minute}}).WithClock(clock)

	require.True(t, l.TryAcquire("brokerage").Allowed)
	advance(40 * time.Second)
	d := l.TryAcquire("brokerage")
	require.False(t, d.Allowed)
	assert.Equal(t, 20*time.Second, d.RetryAfter)
}

func TestLimiterUnknownServiceAllowed(t *testing.T) {
	l := New(map[string]Quota{})
	assert.True(t, l.TryAcquire("anything").Allowed)
}

func TestLimiterPeekDoesNotConsume(t *testing.T) {
	clock, _ := fakeClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	l := New(map[string]Quota{"news": {Limit: 2, Window: time.Hour}}).WithClock(clock)

	require.True(t, l.TryAcquire("news").Allowed)
	for i := 0; i < 5; i++ {
		_ = l.Peek()
	}
	require.True(t, l.TryAcquire("news").Allowed)
	assert.False(t, l.TryAcquire("news").Allowed)

	states := l.Peek()
	require.Len(t, states, 1)
	assert.Equal(t, 2, states[0].CallCount)
}

func TestLimiterConcurrentExactSlots(t *testing.T) {
	l := New(map[string]Quota{"news": {Limit: 50, Window: time.Hour}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire("news").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}
