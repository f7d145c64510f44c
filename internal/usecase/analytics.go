package usecase

import (
	"time"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

// ComputePortfolioAnalytics derives concentration and P&L figures from a
// set of positions. Weights are by market value; HHI is the sum of squared
// weights and EffectiveN its reciprocal.
func ComputePortfolioAnalytics(positions []models.PositionRecord, at time.Time) models.PortfolioAnalytics {
	out := models.PortfolioAnalytics{
		PositionCount: len(positions),
		Weights:       make(map[string]float64, len(positions)),
		ComputedAt:    at,
	}

	var totalCost float64
	for _, p := range positions {
		out.TotalValue += p.MarketValue
		out.TotalPnL += p.UnrealizedPnL
		totalCost += p.Quantity * p.AveragePrice
	}
	if totalCost > 0 {
		out.TotalPnLPct = out.TotalPnL / totalCost * 100
	}
	if out.TotalValue <= 0 {
		return out
	}

	for _, p := range positions {
		w := p.MarketValue / out.TotalValue
		out.Weights[p.Symbol] += w
	}
	for _, w := range out.Weights {
		if w > out.TopPositionWeight {
			out.TopPositionWeight = w
		}
		out.HHI += w * w
	}
	if out.HHI > 0 {
		out.EffectiveN = 1 / out.HHI
	}
	return out
}
