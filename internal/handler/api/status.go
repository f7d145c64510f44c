package api

import (
	"errors"
	"math"

	"github.com/labstack/echo/v4"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/service/cache"
	"github.com/franciiscocg/Trading212/internal/service/ratelimit"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	xlogger "github.com/franciiscocg/Trading212/pkg/logger"
)

type statusResponse struct {
	Quotas []ratelimit.WindowState `json:"quotas"`
	Cache  cache.Stats             `json:"cache"`
}

// Status exposes quota windows and cache effectiveness for the dashboard.
func (h *PortfolioHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, statusResponse{
		Quotas: h.limiter.Peek(),
		Cache:  h.cache.Stats(),
	})
}

type advisorResponse struct {
	Suggestion string `json:"suggestion"`
	RiskLevel  string `json:"risk_level"`
}

// Advise asks the AI advisor for a portfolio review based on the latest
// snapshot. Returns 404 when the advisor is not configured.
func (h *PortfolioHandler) Advise(c echo.Context) error {
	if h.advisor == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("advisor is not configured"))
	}

	req := &models.AdvisorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.pipeline.Latest(c.Request().Context(), req.UserID)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	question := "The investor's risk tolerance is " + req.RiskLevel + ". Suggest portfolio adjustments accordingly."
	suggestion, err := h.advisor.Suggest(c.Request().Context(), result, question)
	if err != nil {
		h.logger.Error("advisor failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("advisor unavailable"))
	}
	return xhttp.SuccessResponse(c, advisorResponse{Suggestion: suggestion, RiskLevel: req.RiskLevel})
}

// toAppError maps typed fetch errors onto HTTP application errors.
func toAppError(err error) error {
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		return xhttp.InternalError("unexpected error")
	}
	switch fe.Kind {
	case models.ErrRateLimited:
		sec := int(math.Ceil(fe.RetryAfter.Seconds()))
		return xhttp.TooManyRequestsError(fe.Source+" quota exhausted", sec)
	case models.ErrNotFound:
		return xhttp.NotFoundError(fe.Error())
	case models.ErrUnauthorized:
		return xhttp.NewAppError("ERR_UPSTREAM_AUTH", fe.Source+" rejected the configured API key", 502)
	case models.ErrUnreachable, models.ErrMalformed:
		return xhttp.BadGatewayError(fe.Source + " is unavailable")
	case models.ErrStorageFailure:
		return xhttp.InternalError("storage failure")
	default:
		return xhttp.InternalError(fe.Error())
	}
}
