package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

func derived(symbol string, qty, avg, cur float64) models.PositionRecord {
	p := models.PositionRecord{Symbol: symbol, Quantity: qty, AveragePrice: avg, CurrentPrice: cur}
	p.Derive()
	return p
}

func TestComputePortfolioAnalytics(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	positions := []models.PositionRecord{
		derived("AAPL", 10, 150, 160), // value 1600, cost 1500
		derived("TSLA", 2, 200, 200),  // value 400, cost 400
	}

	a := ComputePortfolioAnalytics(positions, at)

	assert.InDelta(t, 2000.0, a.TotalValue, 1e-9)
	assert.InDelta(t, 100.0, a.TotalPnL, 1e-9)
	assert.InDelta(t, 100.0/1900.0*100, a.TotalPnLPct, 1e-9)
	assert.Equal(t, 2, a.PositionCount)

	assert.InDelta(t, 0.8, a.Weights["AAPL"], 1e-9)
	assert.InDelta(t, 0.2, a.Weights["TSLA"], 1e-9)
	assert.InDelta(t, 0.8, a.TopPositionWeight, 1e-9)

	hhi := 0.8*0.8 + 0.2*0.2
	assert.InDelta(t, hhi, a.HHI, 1e-9)
	assert.InDelta(t, 1/hhi, a.EffectiveN, 1e-9)
	assert.Equal(t, at, a.ComputedAt)
}

func TestComputePortfolioAnalyticsEmpty(t *testing.T) {
	a := ComputePortfolioAnalytics(nil, time.Now())
	assert.Zero(t, a.TotalValue)
	assert.Zero(t, a.TotalPnLPct)
	assert.Zero(t, a.HHI)
	assert.Zero(t, a.EffectiveN)
	assert.Empty(t, a.Weights)
}

func TestComputePortfolioAnalyticsMergesDuplicateSymbols(t *testing.T) {
	positions := []models.PositionRecord{
		derived("AAPL", 1, 100, 100),
		derived("AAPL", 3, 100, 100),
	}
	a := ComputePortfolioAnalytics(positions, time.Now())
	assert.InDelta(t, 1.0, a.Weights["AAPL"], 1e-9)
	assert.InDelta(t, 1.0, a.HHI, 1e-9)
	assert.InDelta(t, 1.0, a.EffectiveN, 1e-9)
}

func TestComputePortfolioAnalyticsSingleHolding(t *testing.T) {
	a := ComputePortfolioAnalytics([]models.PositionRecord{derived("NVDA", 5, 100, 120)}, time.Now())
	assert.InDelta(t, 1.0, a.TopPositionWeight, 1e-9)
	assert.InDelta(t, 1.0, a.EffectiveN, 1e-9)
}
