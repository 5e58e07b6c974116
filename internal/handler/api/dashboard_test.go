package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"FxPulse/internal/domain/models"
	"FxPulse/internal/usecase"
	xlogger "FxPulse/pkg/logger"
)

type stubMarket struct{ bars models.Series }

func (s *stubMarket) Bars(ctx context.Context, symbol, period, interval string) (models.Series, bool) {
	return s.bars, s.bars != nil
}

type stubConfirm struct{}

func (stubConfirm) Analysis(ctx context.Context, symbol, interval string) (*models.Confirmation, bool) {
	return nil, false
}
func (stubConfirm) Confidence(c *models.Confirmation) models.Confidence {
	return models.ConfidenceLow
}

type stubNotifier struct{}

func (stubNotifier) SendAlert(ctx context.Context, sig models.Signal) bool { return true }

type stubSink struct{}

func (stubSink) OnSignal(models.Signal)             {}
func (stubSink) OnPrice(models.PriceUpdate)         {}
func (stubSink) OnIndicators(models.SymbolSnapshot) {}

type stubMetrics struct{}

func (stubMetrics) RecordSignal(string, string, string) {}
func (stubMetrics) RecordError(string)                  {}
func (stubMetrics) RecordLastPrice(string, float64)     {}
func (stubMetrics) RecordLatency(string, float64)       {}

type stubArchive struct {
	bars models.Series
	err  error
}

func (s *stubArchive) StoreBatch(ctx context.Context, symbol, interval string, bars models.Series) error {
	return nil
}
func (s *stubArchive) Query(ctx context.Context, symbol, interval string, from, to time.Time, limit int) (models.Series, error) {
	return s.bars, s.err
}
func (s *stubArchive) Health(ctx context.Context) error { return s.err }
func (s *stubArchive) Close() error                     { return nil }

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func flatBars(n int) models.Series {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make(models.Series, n)
	for i := range bars {
		bars[i] = models.Candle{Time: t0.Add(time.Duration(i) * time.Hour), Open: 1.1, High: 1.101, Low: 1.099, Close: 1.1}
	}
	return bars
}

func setup(t *testing.T, archive *stubArchive) (*echo.Echo, *usecase.Monitor) {
	t.Helper()
	m := usecase.NewMonitor(usecase.MonitorConfig{Symbols: []string{"EURUSD=X"}}, usecase.Deps{
		Market:   &stubMarket{bars: flatBars(5)},
		Confirm:  stubConfirm{},
		Notifier: stubNotifier{},
		Sink:     stubSink{},
		Metrics:  stubMetrics{},
		Log:      testLogger(t),
	})
	m.RunCycle(context.Background())

	e := echo.New()
	var h *DashboardHandler
	if archive != nil {
		h = NewDashboardHandler(testLogger(t), m, archive)
	} else {
		h = NewDashboardHandler(testLogger(t), m, nil)
	}
	h.RegisterRoutes(e)
	return e, m
}

func do(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignalsEndpoint(t *testing.T) {
	e, m := setup(t, nil)
	m.Recent().Add(models.Signal{
		Symbol:    "EURUSD=X",
		Direction: models.DirectionBuy,
		Indicator: models.IndicatorRSI,
		Strength:  models.StrengthModerate,
	})

	rec := do(e, "/api/signals?limit=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body struct {
		Status int             `json:"status"`
		Data   []models.Signal `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusOK || len(body.Data) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if body.Data[0].Symbol != "EURUSD=X" {
		t.Fatalf("wrong signal: %+v", body.Data[0])
	}
}

func TestSignalsLimitValidation(t *testing.T) {
	e, _ := setup(t, nil)
	rec := do(e, "/api/signals?limit=100000")
	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Fatalf("expected validation failure, got %s", rec.Body.String())
	}
}

func TestSymbolsEndpoint(t *testing.T) {
	e, _ := setup(t, nil)
	rec := do(e, "/api/symbols")
	var body struct {
		Data []models.SymbolSnapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Symbol != "EURUSD=X" {
		t.Fatalf("unexpected snapshots: %s", rec.Body.String())
	}

	if rec := do(e, "/api/symbols/EURUSD=X"); !strings.Contains(rec.Body.String(), `"status":200`) {
		t.Fatalf("known symbol lookup failed: %s", rec.Body.String())
	}
	if rec := do(e, "/api/symbols/UNKNOWN"); !strings.Contains(rec.Body.String(), `"status":404`) {
		t.Fatalf("unknown symbol should be 404: %s", rec.Body.String())
	}
}

func TestCandlesEndpoint(t *testing.T) {
	e, _ := setup(t, &stubArchive{bars: flatBars(3)})
	rec := do(e, "/api/candles?symbol=EURUSD%3DX&interval=1h&limit=100")
	var body struct {
		Data struct {
			Rows  []models.Candle `json:"rows"`
			Total int64           `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Total != 3 || len(body.Data.Rows) != 3 {
		t.Fatalf("unexpected candles: %s", rec.Body.String())
	}

	// Missing symbol fails validation.
	if rec := do(e, "/api/candles"); !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Fatalf("expected validation failure: %s", rec.Body.String())
	}
}

func TestCandlesDisabled(t *testing.T) {
	e, _ := setup(t, nil)
	rec := do(e, "/api/candles?symbol=EURUSD%3DX")
	if !strings.Contains(rec.Body.String(), `"status":503`) {
		t.Fatalf("expected disabled archive response: %s", rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	e, _ := setup(t, &stubArchive{})
	rec := do(e, "/api/health")
	if !strings.Contains(rec.Body.String(), `"archive":"ok"`) {
		t.Fatalf("unexpected health: %s", rec.Body.String())
	}
}
