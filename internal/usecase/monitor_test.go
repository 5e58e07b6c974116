package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"FxPulse/internal/domain/models"
	applogger "FxPulse/pkg/logger"
)

type fakeMarket struct {
	mu    sync.Mutex
	bars  map[string]models.Series
	calls map[string]int
}

func (f *fakeMarket) Bars(ctx context.Context, symbol, period, interval string) (models.Series, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[symbol]++
	bars, ok := f.bars[symbol]
	return bars, ok
}

type fakeConfirm struct{ conf *models.Confirmation }

func (f *fakeConfirm) Analysis(ctx context.Context, symbol, interval string) (*models.Confirmation, bool) {
	return f.conf, f.conf != nil
}

func (f *fakeConfirm) Confidence(c *models.Confirmation) models.Confidence {
	if c == nil {
		return models.ConfidenceLow
	}
	return c.ConfidenceTier()
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Signal
}

func (f *fakeNotifier) SendAlert(ctx context.Context, sig models.Signal) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sig)
	return true
}

type fakeSink struct {
	mu      sync.Mutex
	signals []models.Signal
	prices  []models.PriceUpdate
	snaps   []models.SymbolSnapshot
}

func (f *fakeSink) OnSignal(sig models.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, sig)
}

func (f *fakeSink) OnPrice(u models.PriceUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices = append(f.prices, u)
}

func (f *fakeSink) OnIndicators(s models.SymbolSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps = append(f.snaps, s)
}

type fakeMetrics struct {
	mu      sync.Mutex
	signals int
	errors  map[string]int
}

func (f *fakeMetrics) RecordSignal(symbol, indicator, direction string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals++
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errors == nil {
		f.errors = map[string]int{}
	}
	f.errors[kind]++
}

func (f *fakeMetrics) RecordLastPrice(symbol string, price float64) {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)     {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// recoveryBars yields a steady decline with a sharp final rise, which
// drives RSI from the floor back above the oversold threshold.
func recoveryBars() models.Series {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make(models.Series, 60)
	for i := 0; i < 60; i++ {
		c := 100 - 0.5*float64(i)
		if i == 59 {
			c = bars[58].Close + 5
		}
		bars[i] = models.Candle{Time: t0.Add(time.Duration(i) * time.Hour), Open: c, High: c + 0.1, Low: c - 0.1, Close: c}
	}
	return bars
}

func newTestMonitor(t *testing.T, market *fakeMarket) (*Monitor, *fakeNotifier, *fakeSink, *fakeMetrics) {
	t.Helper()
	notifier := &fakeNotifier{}
	sink := &fakeSink{}
	metrics := &fakeMetrics{}
	symbols := make([]string, 0, len(market.bars))
	for s := range market.bars {
		symbols = append(symbols, s)
	}
	m := NewMonitor(MonitorConfig{Symbols: symbols, SymbolPause: 0}, Deps{
		Market:   market,
		Confirm:  &fakeConfirm{},
		Notifier: notifier,
		Sink:     sink,
		Metrics:  metrics,
		Log:      testLogger(t),
	})
	return m, notifier, sink, metrics
}

func TestRunCycleDetectsAndFansOut(t *testing.T) {
	market := &fakeMarket{bars: map[string]models.Series{"EURUSD=X": recoveryBars()}}
	m, notifier, sink, _ := newTestMonitor(t, market)

	m.RunCycle(context.Background())

	if len(notifier.sent) == 0 {
		t.Fatal("expected at least one alert")
	}
	var rsiSeen bool
	for _, sig := range notifier.sent {
		if sig.Indicator == models.IndicatorRSI && sig.Direction == models.DirectionBuy {
			rsiSeen = true
		}
	}
	if !rsiSeen {
		t.Fatalf("expected an RSI BUY alert, got %v", notifier.sent)
	}
	if len(sink.signals) != len(notifier.sent) {
		t.Fatalf("sink saw %d signals, notifier %d", len(sink.signals), len(notifier.sent))
	}
	if len(sink.prices) != 1 || len(sink.snaps) != 1 {
		t.Fatalf("expected one price and one snapshot event, got %d/%d", len(sink.prices), len(sink.snaps))
	}
	if got := m.Recent().List(0); len(got) != len(notifier.sent) {
		t.Fatalf("recent history holds %d, want %d", len(got), len(notifier.sent))
	}

	snap, ok := m.Snapshot("EURUSD=X")
	if !ok {
		t.Fatal("snapshot missing")
	}
	if _, ok := snap.Indicators["RSI"]; !ok {
		t.Fatalf("snapshot lacks RSI: %v", snap.Indicators)
	}

	// Same data again: the latches hold, nothing refires.
	before := len(notifier.sent)
	m.RunCycle(context.Background())
	if len(notifier.sent) != before {
		t.Fatalf("unchanged data refired: %d -> %d alerts", before, len(notifier.sent))
	}
}

func TestRunCycleIsolatesSymbolFailures(t *testing.T) {
	market := &fakeMarket{bars: map[string]models.Series{"EURUSD=X": recoveryBars()}}
	notifier := &fakeNotifier{}
	sink := &fakeSink{}
	metrics := &fakeMetrics{}
	m := NewMonitor(MonitorConfig{Symbols: []string{"BROKEN=X", "EURUSD=X"}, SymbolPause: 0}, Deps{
		Market:   market,
		Confirm:  &fakeConfirm{},
		Notifier: notifier,
		Sink:     sink,
		Metrics:  metrics,
		Log:      testLogger(t),
	})

	m.RunCycle(context.Background())

	if metrics.errors["market_data"] != 1 {
		t.Fatalf("expected one market_data error, got %v", metrics.errors)
	}
	if market.calls["EURUSD=X"] != 1 {
		t.Fatal("healthy symbol skipped after a broken one")
	}
	if len(notifier.sent) == 0 {
		t.Fatal("healthy symbol produced no alert")
	}
}

func TestStartAndShutdown(t *testing.T) {
	market := &fakeMarket{bars: map[string]models.Series{"EURUSD=X": recoveryBars()}}
	m, _, _, _ := newTestMonitor(t, market)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Give the first cycle a moment, then shut down within a bound.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		market.mu.Lock()
		done := market.calls["EURUSD=X"] > 0
		market.mu.Unlock()
		if done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestRecentSignalsRing(t *testing.T) {
	r := NewRecentSignals(3)
	for i := 0; i < 5; i++ {
		r.Add(models.Signal{Reason: string(rune('a' + i))})
	}
	got := r.List(0)
	if len(got) != 3 {
		t.Fatalf("capacity not enforced: %d", len(got))
	}
	if got[0].Reason != "e" || got[2].Reason != "c" {
		t.Fatalf("not newest-first: %v", got)
	}
	if got := r.List(2); len(got) != 2 || got[0].Reason != "e" {
		t.Fatalf("limit broken: %v", got)
	}
}
