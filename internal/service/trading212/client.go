package trading212

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/service/ratelimit"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	xlogger "github.com/franciiscocg/Trading212/pkg/logger"
)

// ServiceID keys the brokerage quota in the rate limiter.
const ServiceID = "trading212"

// Client talks to the Trading212 equity API. Position data is always
// fetched fresh; the client never caches.
type Client struct {
	apiKey     string
	baseURL    string
	conversion float64
	limiter    *ratelimit.Limiter
	http       *xhttp.Client
	logger     *xlogger.Logger
}

// New creates a brokerage client. conversion scales prices into the
// dashboard currency; pass 1 to disable.
func New(apiKey, baseURL string, conversion float64, limiter *ratelimit.Limiter, logger *xlogger.Logger) *Client {
	if conversion <= 0 {
		conversion = 1
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		conversion: conversion,
		limiter:    limiter,
		http:       xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		logger:     logger,
	}
}

type apiPosition struct {
	Ticker       string   `json:"ticker"`
	Quantity     *float64 `json:"quantity"`
	AveragePrice *float64 `json:"averagePrice"`
	CurrentPrice *float64 `json:"currentPrice"`
}

type apiAccountInfo struct {
	ID           int64  `json:"id"`
	CurrencyCode string `json:"currencyCode"`
}

type apiAccountCash struct {
	Free     float64 `json:"free"`
	Invested float64 `json:"invested"`
	Total    float64 `json:"total"`
	Result   float64 `json:"result"`
}

// FetchPositions fetches all open positions with derived P&L figures.
func (c *Client) FetchPositions(ctx context.Context, userID string) ([]models.PositionRecord, error) {
	var raw []apiPosition
	if err := c.get(ctx, "/equity/portfolio", &raw); err != nil {
		return nil, err
	}

	out := make([]models.PositionRecord, 0, len(raw))
	for _, p := range raw {
		if p.Ticker == "" || p.Quantity == nil || p.AveragePrice == nil || p.CurrentPrice == nil {
			return nil, models.NewFetchError(ServiceID, models.ErrMalformed,
				fmt.Errorf("position missing required fields (ticker=%q)", p.Ticker))
		}
		rec := models.PositionRecord{
			Symbol:       p.Ticker,
			Quantity:     *p.Quantity,
			AveragePrice: *p.AveragePrice * c.conversion,
			CurrentPrice: *p.CurrentPrice * c.conversion,
		}
		rec.Derive()
		out = append(out, rec)
	}
	c.logger.Debug("trading212 positions fetched",
		xlogger.String("user_id", userID),
		xlogger.Int("positions", len(out)),
	)
	return out, nil
}

// FetchAccount fetches account info and cash balances in two calls.
func (c *Client) FetchAccount(ctx context.Context) (*models.AccountSummary, error) {
	var info apiAccountInfo
	if err := c.get(ctx, "/equity/account/info", &info); err != nil {
		return nil, err
	}
	var cash apiAccountCash
	if err := c.get(ctx, "/equity/account/cash", &cash); err != nil {
		return nil, err
	}
	return &models.AccountSummary{
		AccountID:     info.ID,
		Currency:      info.CurrencyCode,
		FreeCash:      cash.Free,
		InvestedValue: cash.Invested,
		TotalValue:    cash.Total,
		ResultPnL:     cash.Result,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	if d := c.limiter.TryAcquire(ServiceID); !d.Allowed {
		return &models.FetchError{Source: ServiceID, Kind: models.ErrRateLimited, RetryAfter: d.RetryAfter}
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Authorization": c.apiKey,
		},
	})
	if err != nil {
		return models.NewFetchError(ServiceID, models.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if kind, ok := classifyStatus(resp.StatusCode); ok {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.NewFetchError(ServiceID, kind,
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return models.NewFetchError(ServiceID, models.ErrMalformed, err)
	}
	return nil
}

// classifyStatus maps non-2xx codes onto the error taxonomy.
func classifyStatus(code int) (models.ErrorKind, bool) {
	switch {
	case code >= 200 && code < 300:
		return "", false
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return models.ErrUnauthorized, true
	case code == http.StatusTooManyRequests:
		return models.ErrRateLimited, true
	case code == http.StatusNotFound:
		return models.ErrNotFound, true
	default:
		return models.ErrUnreachable, true
	}
}
