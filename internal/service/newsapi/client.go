package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/service/ratelimit"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	xlogger "github.com/franciiscocg/Trading212/pkg/logger"
)

// ServiceID keys the news quota in the rate limiter.
const ServiceID = "newsapi"

// maxPageSize is the provider's per-request cap.
const maxPageSize = 20

// Client fetches recent articles from NewsAPI's everything endpoint.
type Client struct {
	apiKey  string
	baseURL string
	limiter *ratelimit.Limiter
	http    *xhttp.Client
	logger  *xlogger.Logger
}

// New creates a news client.
func New(apiKey, baseURL string, limiter *ratelimit.Limiter, logger *xlogger.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		limiter: limiter,
		http:    xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		logger:  logger,
	}
}

type apiResponse struct {
	Status   string       `json:"status"`
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// FetchNews fetches up to limit recent articles about symbol. The local
// limiter is consulted before any network call; a denial costs nothing
// remotely.
func (c *Client) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	if d := c.limiter.TryAcquire(ServiceID); !d.Allowed {
		return nil, &models.FetchError{Source: ServiceID, Kind: models.ErrRateLimited, RetryAfter: d.RetryAfter}
	}

	pageSize := limit
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v2/everything",
		QueryParams: map[string][]string{
			"q":        {symbol},
			"pageSize": {strconv.Itoa(pageSize)},
			"language": {"en"},
			"sortBy":   {"publishedAt"},
			"apiKey":   {c.apiKey},
		},
	})
	if err != nil {
		return nil, models.NewFetchError(ServiceID, models.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if kind, ok := classifyStatus(resp.StatusCode); ok {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, models.NewFetchError(ServiceID, kind,
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, models.NewFetchError(ServiceID, models.ErrMalformed, err)
	}
	if parsed.Status != "ok" {
		return nil, models.NewFetchError(ServiceID, models.ErrMalformed,
			fmt.Errorf("unexpected response status %q", parsed.Status))
	}

	out := make([]models.NewsArticle, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		out = append(out, models.NewsArticle{
			Title:       a.Title,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
		if len(out) == limit {
			break
		}
	}
	c.logger.Debug("news fetched",
		xlogger.String("symbol", symbol),
		xlogger.Int("articles", len(out)),
	)
	return out, nil
}

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
