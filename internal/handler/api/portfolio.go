package api

import (
	"github.com/labstack/echo/v4"

	"github.com/franciiscocg/Trading212/internal/domain/models"
	"github.com/franciiscocg/Trading212/internal/service/cache"
	"github.com/franciiscocg/Trading212/internal/service/ratelimit"
	"github.com/franciiscocg/Trading212/internal/usecase"
	xhttp "github.com/franciiscocg/Trading212/pkg/http"
	xlogger "github.com/franciiscocg/Trading212/pkg/logger"
)

// PortfolioHandler serves the dashboard REST API.
type PortfolioHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.AggregationPipeline
	advisor  *usecase.Advisor
	limiter  *ratelimit.Limiter
	cache    cache.ResultCache
}

func NewPortfolioHandler(
	logger *xlogger.Logger,
	pipeline *usecase.AggregationPipeline,
	advisor *usecase.Advisor,
	limiter *ratelimit.Limiter,
	c cache.ResultCache,
) *PortfolioHandler {
	return &PortfolioHandler{
		logger:   logger,
		pipeline: pipeline,
		advisor:  advisor,
		limiter:  limiter,
		cache:    c,
	}
}

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/portfolio/sync", h.Sync)
	g.GET("/portfolio", h.Latest)
	g.GET("/analytics", h.Analytics)
	g.GET("/sentiment/:symbol", h.Sentiment)
	g.DELETE("/cache", h.ClearCache)
	g.POST("/advisor/suggest", h.Advise)
	g.GET("/status", h.Status)
}

// Sync runs a full refresh and returns the merged result.
func (h *PortfolioHandler) Sync(c echo.Context) error {
	req := &models.SyncRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	force := c.QueryParam("force") == "true"

	result, err := h.pipeline.Refresh(c.Request().Context(), req.UserID, force)
	if err != nil {
		h.logger.Error("sync failed", xlogger.Error(err), xlogger.String("user_id", req.UserID))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, result)
}

// Latest returns the most recent persisted snapshot without hitting the
// brokerage.
func (h *PortfolioHandler) Latest(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = "default"
	}

	result, err := h.pipeline.Latest(c.Request().Context(), userID)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, result)
}

// Analytics derives concentration figures from the latest snapshot.
func (h *PortfolioHandler) Analytics(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = "default"
	}

	result, err := h.pipeline.Latest(c.Request().Context(), userID)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	analytics := usecase.ComputePortfolioAnalytics(result.Positions, result.CompletedAt)
	return xhttp.SuccessResponse(c, analytics)
}
