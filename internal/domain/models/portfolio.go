package models

import "time"

// PositionRecord is one open brokerage position with derived P&L figures.
// Derived fields satisfy: MarketValue = Quantity*CurrentPrice and
// UnrealizedPnL = MarketValue - Quantity*AveragePrice.
type PositionRecord struct {
	Symbol           string  `json:"symbol"`
	Quantity         float64 `json:"quantity"`
	AveragePrice     float64 `json:"average_price"`
	CurrentPrice     float64 `json:"current_price"`
	MarketValue      float64 `json:"market_value"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	UnrealizedPnLPct float64 `json:"unrealized_pnl_pct"`
}

// Derive fills the computed fields from quantity and prices.
func (p *PositionRecord) Derive() {
	p.MarketValue = p.Quantity * p.CurrentPrice
	costBasis := p.Quantity * p.AveragePrice
	p.UnrealizedPnL = p.MarketValue - costBasis
	if costBasis > 0 {
		p.UnrealizedPnLPct = p.UnrealizedPnL / costBasis * 100
	} else {
		p.UnrealizedPnLPct = 0
	}
}

// AccountSummary holds account-level figures synced alongside positions.
type AccountSummary struct {
	AccountID     int64   `json:"account_id"`
	Currency      string  `json:"currency"`
	FreeCash      float64 `json:"free_cash"`
	InvestedValue float64 `json:"invested_value"`
	TotalValue    float64 `json:"total_value"`
	ResultPnL     float64 `json:"result_pnl"`
}

// PortfolioAnalytics summarizes a snapshot for the dashboard.
type PortfolioAnalytics struct {
	TotalValue        float64            `json:"total_value"`
	TotalPnL          float64            `json:"total_pnl"`
	TotalPnLPct       float64            `json:"total_pnl_pct"`
	PositionCount     int                `json:"position_count"`
	TopPositionWeight float64            `json:"top_position_weight"`
	HHI               float64            `json:"hhi"`
	EffectiveN        float64            `json:"effective_n"`
	Weights           map[string]float64 `json:"weights"`
	ComputedAt        time.Time          `json:"computed_at"`
}
