package models

import "time"

// AggregateResult is the merged output of one pipeline run: fresh positions,
// whatever sentiment could be obtained, and a record of partial failures.
// A result with a non-empty error list is still usable as long as positions
// are present. Immutable after construction.
type AggregateResult struct {
	RunID      string                     `json:"run_id"`
	UserID     string                     `json:"user_id"`
	Positions  []PositionRecord           `json:"positions"`
	Account    *AccountSummary            `json:"account,omitempty"`
	Sentiments map[string]SentimentRecord `json:"sentiments"`
	Errors     []SourceError              `json:"errors"`
	CompletedAt time.Time                 `json:"completed_at"`
}

// SymbolsInOrder returns distinct position symbols in first-seen order.
func (r *AggregateResult) SymbolsInOrder() []string {
	return DistinctSymbols(r.Positions)
}

// DistinctSymbols extracts distinct symbols from positions, preserving
// first-seen order.
func DistinctSymbols(positions []PositionRecord) []string {
	seen := make(map[string]struct{}, len(positions))
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if _, ok := seen[p.Symbol]; ok {
			continue
		}
		seen[p.Symbol] = struct{}{}
		out = append(out, p.Symbol)
	}
	return out
}

// SyncEvent is the payload published after a completed run.
type SyncEvent struct {
	RunID       string    `json:"run_id"`
	UserID      string    `json:"user_id"`
	Positions   int       `json:"positions"`
	Sentiments  int       `json:"sentiments"`
	Errors      int       `json:"errors"`
	CompletedAt time.Time `json:"completed_at"`
}

// Event builds the publishable summary of a result.
func (r *AggregateResult) Event() SyncEvent {
	return SyncEvent{
		RunID:       r.RunID,
		UserID:      r.UserID,
		Positions:   len(r.Positions),
		Sentiments:  len(r.Sentiments),
		Errors:      len(r.Errors),
		CompletedAt: r.CompletedAt,
	}
}
