package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"FxPulse/internal/domain/models"
	drepo "FxPulse/internal/domain/repository"
	"FxPulse/internal/usecase"
	xhttp "FxPulse/pkg/http"
	xlogger "FxPulse/pkg/logger"
	"FxPulse/pkg/util"
)

// DashboardHandler serves the dashboard's REST surface: recent signals,
// per-symbol indicator snapshots and archived chart history.
type DashboardHandler struct {
	logger  *xlogger.Logger
	monitor *usecase.Monitor
	archive drepo.CandleArchive // nil when the archive is disabled
}

func NewDashboardHandler(logger *xlogger.Logger, monitor *usecase.Monitor, archive drepo.CandleArchive) *DashboardHandler {
	return &DashboardHandler{logger: logger, monitor: monitor, archive: archive}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/symbols", h.Symbols)
	g.GET("/symbols/:symbol", h.Symbol)
	g.GET("/candles", h.Candles)
	g.GET("/health", h.Health)
}

// Signals returns the most recent fired signals, newest first.
func (h *DashboardHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.monitor.Recent().List(req.Limit))
}

// Symbols returns the latest indicator snapshot for every monitored
// symbol.
func (h *DashboardHandler) Symbols(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.monitor.Snapshots())
}

// Symbol returns the latest snapshot for one symbol.
func (h *DashboardHandler) Symbol(c echo.Context) error {
	symbol := c.Param("symbol")
	snap, ok := h.monitor.Snapshot(symbol)
	if !ok {
		return xhttp.NotFoundResponse(c, "symbol not monitored or not yet evaluated")
	}
	return xhttp.SuccessResponse(c, snap)
}

// Candles serves archived chart history.
func (h *DashboardHandler) Candles(c echo.Context) error {
	if h.archive == nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, "candle archive disabled")
	}

	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-7*24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)
	interval := drepo.NormalizeInterval(req.Interval)
	from, to = util.AlignFromTo(from, to, interval)

	bars, err := h.archive.Query(c.Request().Context(), req.Symbol, interval, from, to, req.Limit)
	if err != nil {
		h.logger.Error("candle query failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, bars, int64(len(bars)))
}

// Health reports liveness plus the archive's reachability.
func (h *DashboardHandler) Health(c echo.Context) error {
	status := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	}
	if h.archive != nil {
		if err := h.archive.Health(c.Request().Context()); err != nil {
			status["archive"] = "unreachable"
		} else {
			status["archive"] = "ok"
		}
	} else {
		status["archive"] = "disabled"
	}
	return xhttp.SuccessResponse(c, status)
}
