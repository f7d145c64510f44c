package usecase

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/pkg/logger"
)

// Advisor produces a narrative portfolio review from the latest sync result
// using Gemini. It is optional; a nil Advisor means the feature is disabled.
type Advisor struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewAdvisor returns nil when no API key is configured.
func NewAdvisor(ctx context.Context, apiKey, model string, log *logger.Logger) (*Advisor, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Advisor{client: client, model: model, log: log}, nil
}

// Suggest asks the model for a review of the current portfolio. The question
// is appended to a structured summary of positions and sentiment.
func (a *Advisor) Suggest(ctx context.Context, result *models.AggregateResult, question string) (string, error) {
	prompt := buildAdvisorPrompt(result, question)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate suggestion: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty suggestion from model")
	}
	a.log.Info("advisor suggestion generated",
		logger.String("run_id", result.RunID),
		logger.Int("prompt_chars", len(prompt)),
	)
	return text, nil
}

func buildAdvisorPrompt(result *models.AggregateResult, question string) string {
	var b strings.Builder
	b.WriteString("You are reviewing a personal stock portfolio. Current positions:\n")
	for _, p := range result.Positions {
		fmt.Fprintf(&b, "- %s: qty %.4f, avg %.2f, current %.2f, value %.2f, unrealized P&L %.2f (%.2f%%)\n",
			p.Symbol, p.Quantity, p.AveragePrice, p.CurrentPrice, p.MarketValue, p.UnrealizedPnL, p.UnrealizedPnLPct)
	}
	if len(result.Sentiments) > 0 {
		b.WriteString("\nRecent news sentiment per symbol:\n")
		for _, symbol := range result.SymbolsInOrder() {
			rec, ok := result.Sentiments[symbol]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "- %s: overall %.4f (%s) from %d articles\n",
				symbol, rec.OverallScore, rec.Label(), rec.NewsCount)
		}
	}
	if result.Account != nil {
		fmt.Fprintf(&b, "\nAccount: total %.2f %s, free cash %.2f\n",
			result.Account.TotalValue, result.Account.Currency, result.Account.FreeCash)
	}
	b.WriteString("\n")
	if question != "" {
		b.WriteString(question)
	} else {
		b.WriteString("Give a short assessment of concentration, risk, and anything the news sentiment suggests watching. Do not give financial advice disclaimers.")
	}
	return b.String()
}
