package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	xlogger "github.com/franciiscocg/Trading212/pkg/logger"
)

type sentimentResponse struct {
	models.SentimentRecord
	Label models.SentimentLabel `json:"label"`
}

// Sentiment returns cached sentiment for one symbol. It never triggers a
// fetch; a cold symbol is a 404 until the next sync covers it.
func (h *PortfolioHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := strings.ToUpper(req.Symbol)

	rec, ok := h.pipeline.CachedSentiment(symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no cached sentiment for %s", symbol))
	}
	return xhttp.SuccessResponse(c, sentimentResponse{SentimentRecord: rec, Label: rec.Label()})
}

// ClearCache busts sentiment cache entries by prefix. An empty prefix
// clears everything.
func (h *PortfolioHandler) ClearCache(c echo.Context) error {
	req := &models.CacheClearRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.cache.Clear(strings.ToUpper(req.Prefix))
	h.logger.Info("cache cleared", xlogger.String("prefix", req.Prefix))
	return xhttp.NoContentResponse(c)
}
