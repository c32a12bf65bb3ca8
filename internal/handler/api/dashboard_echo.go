package api

import (
	"fmt"
	"net/url"

	models "CycleWatch/internal/domain/models"
	"CycleWatch/internal/usecase"
	xhttp "CycleWatch/pkg/http"
	xlogger "CycleWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Defaults fill request fields the client omitted. They come from the
// configured ladder and refresh sections, so operators tune one place.
type Defaults struct {
	StepPct        float64
	SellPct        float64
	MaxSteps       int
	TrailPct       float64
	TopAlts        int
	TargetAltAlloc float64
}

// DashboardEchoHandler implements the Echo-based HTTP handlers for the
// dashboard API.
type DashboardEchoHandler struct {
	logger        *xlogger.Logger
	refresher     *usecase.Refresher
	hub           *Hub
	embedTemplate string
	defaults      Defaults
}

func NewDashboardEchoHandler(logger *xlogger.Logger, refresher *usecase.Refresher, hub *Hub, embedTemplate string, defaults Defaults) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:        logger,
		refresher:     refresher,
		hub:           hub,
		embedTemplate: embedTemplate,
		defaults:      defaults,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/ws", h.Stream)

	g := e.Group("/api")
	g.GET("/snapshot", h.Snapshot)
	g.GET("/signals", h.Signals)
	g.GET("/ladder", h.Ladder)
	g.GET("/trailing", h.Trailing)
	g.GET("/alts", h.Alts)
	g.GET("/charts", h.Charts)
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	view := h.refresher.View()
	if view.Snapshot == nil {
		return xhttp.ServiceUnavailableResponse(c, map[string]interface{}{
			"status": "starting",
		})
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":  "ok",
		"stale":   view.Stale,
		"age_sec": view.AgeSec,
	})
}

func (h *DashboardEchoHandler) Snapshot(c echo.Context) error {
	view := h.refresher.View()
	if view.Snapshot == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("no snapshot fetched yet"))
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *DashboardEchoHandler) Signals(c echo.Context) error {
	eval, ok := h.refresher.Evaluation()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("no snapshot fetched yet"))
	}
	return xhttp.SuccessResponse(c, eval)
}

func (h *DashboardEchoHandler) Ladder(c echo.Context) error {
	req := &models.LadderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.StepPct == 0 {
		req.StepPct = h.defaults.StepPct
	}
	if req.SellPct == 0 {
		req.SellPct = h.defaults.SellPct
	}
	if req.MaxSteps == 0 {
		req.MaxSteps = h.defaults.MaxSteps
	}
	plan := usecase.BuildLadder(req.Entry, req.StepPct, req.SellPct, req.MaxSteps)
	return xhttp.SuccessResponse(c, plan)
}

func (h *DashboardEchoHandler) Trailing(c echo.Context) error {
	req := &models.TrailingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.TrailPct == 0 {
		req.TrailPct = h.defaults.TrailPct
	}
	stop := usecase.BuildTrailingStop(req.Price, req.TrailPct)
	return xhttp.SuccessResponse(c, stop)
}

func (h *DashboardEchoHandler) Alts(c echo.Context) error {
	req := &models.AltsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.N == 0 {
		req.N = h.defaults.TopAlts
	}

	view := h.refresher.View()
	if view.Snapshot == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("no snapshot fetched yet"))
	}

	alts := view.Snapshot.Alts
	if len(alts) > req.N {
		alts = alts[:req.N]
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"rows":             alts,
		"stale":            view.Stale,
		"age_sec":          view.AgeSec,
		"target_alt_alloc": h.defaults.TargetAltAlloc,
	})
}

// Charts returns the embed URLs the presentation layer drops into iframes.
func (h *DashboardEchoHandler) Charts(c echo.Context) error {
	widgets := []models.ChartWidget{
		h.widget("tradingview_btc_d", "CRYPTOCAP:BTC.D"),
		h.widget("tradingview_ethbtc", "BINANCE:ETHBTC"),
		h.widget("tradingview_btcusd", "INDEX:BTCUSD"),
	}
	return xhttp.SuccessResponse(c, widgets)
}

func (h *DashboardEchoHandler) widget(id, symbol string) models.ChartWidget {
	return models.ChartWidget{
		ID:     id,
		Symbol: symbol,
		URL:    fmt.Sprintf(h.embedTemplate, id, url.QueryEscape(symbol)),
	}
}

// Stream upgrades to WebSocket and pushes an update after every refresh.
func (h *DashboardEchoHandler) Stream(c echo.Context) error {
	view := h.refresher.View()
	var initial *StreamUpdate
	if view.Snapshot != nil {
		eval, _ := h.refresher.Evaluation()
		initial = &StreamUpdate{Type: updateTypeInitial, View: view, Evaluation: &eval}
	}
	return h.hub.Serve(c.Response(), c.Request(), initial)
}
