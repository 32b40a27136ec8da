package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	models "MarketBoard/internal/domain/models"
	domrepo "MarketBoard/internal/domain/repository"
	"MarketBoard/internal/usecase"
	"MarketBoard/internal/ws"
	xhttp "MarketBoard/pkg/http"
	xlogger "MarketBoard/pkg/logger"
	"MarketBoard/pkg/util"
)

// DashboardEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	dash    *usecase.Dashboard
	hub     *ws.Hub
	history domrepo.HistoryStore
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard, hub *ws.Hub, history domrepo.HistoryStore) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash, hub: hub, history: history}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/finance/dashboard", h.Dashboard)
	g.GET("/finance/source/:id", h.Source)
	g.GET("/finance/cache/status", h.CacheStatus)
	g.GET("/finance/history", h.History)
	e.GET("/health", h.Health)
	e.GET("/ws", h.WebSocket)
}

// Dashboard serves the aggregated payload. Browsers must never cache it;
// the snapshot layer is the only cache.
func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	payload := h.dash.BuildPayload(c.Request().Context())

	hdr := c.Response().Header()
	hdr.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	hdr.Set("Pragma", "no-cache")
	hdr.Set("Expires", "0")
	hdr.Set("Last-Modified", time.Now().UTC().Format(time.RFC1123))
	hdr.Set("ETag", fmt.Sprintf("%q", fmt.Sprint(payload.Timestamp)))

	return xhttp.SuccessResponse(c, payload)
}

func (h *DashboardEchoHandler) Source(c echo.Context) error {
	req := &models.SourceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	status, err := h.dash.SourceStatus(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownSource) {
			return xhttp.NotFoundResponse(c, map[string]string{"source": req.ID})
		}
		h.logger.Error("source status error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *DashboardEchoHandler) CacheStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.CacheStatus(c.Request().Context()))
}

func (h *DashboardEchoHandler) History(c echo.Context) error {
	if h.history == nil {
		return xhttp.NotFoundResponse(c, map[string]string{"history": "disabled"})
	}
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// Explicit from/to win over the rolling window.
	to := util.ParseTimeDefault(c.QueryParam("to"), time.Now())
	from := util.ParseTimeDefault(c.QueryParam("from"), to.Add(-time.Duration(req.Hours)*time.Hour))
	rows, err := h.history.Query(c.Request().Context(), req.Source, req.Name, from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]any{
		"status":    "ok",
		"wsClients": h.hub.Clients(),
		"time":      time.Now().UTC(),
	})
}

func (h *DashboardEchoHandler) WebSocket(c echo.Context) error {
	return h.hub.Serve(c.Response(), c.Request())
}
