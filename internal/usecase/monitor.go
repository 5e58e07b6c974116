package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"FxPulse/internal/detector"
	"FxPulse/internal/domain/models"
	drepo "FxPulse/internal/domain/repository"
	"FxPulse/internal/indicator"
	applogger "FxPulse/pkg/logger"
)

// MonitorConfig tunes the detection loop.
type MonitorConfig struct {
	Symbols []string `yaml:"symbols"`

	// Period is the history range requested per fetch, Interval the bar
	// size. Interval also keys the confirmation lookup.
	Period   string `yaml:"period" default:"7d"`
	Interval string `yaml:"interval" default:"1h"`

	// CheckInterval spaces full passes over the symbol list;
	// SymbolPause yields between symbols inside one pass.
	CheckInterval time.Duration `yaml:"check_interval" default:"15m"`
	SymbolPause   time.Duration `yaml:"symbol_pause" default:"100ms"`

	Params   indicator.Params
	Detector detector.Config
}

// Deps bundles the monitor's collaborators. Archive and Publisher are
// optional; nil disables them.
type Deps struct {
	Market    drepo.MarketData
	Confirm   drepo.ConfirmationSource
	Notifier  drepo.Notifier
	Sink      drepo.EventSink
	Archive   drepo.CandleArchive
	Publisher drepo.SignalPublisher
	Metrics   drepo.Metrics
	Log       *applogger.Logger
}

// Monitor runs the detection cycle: fetch bars, compute indicators,
// detect signals, fan results out to the notifier, event sink, metrics
// and the optional archive and publisher. All per-symbol state is owned
// by the run goroutine; only published snapshots and the signal history
// are shared.
type Monitor struct {
	cfg    MonitorConfig
	deps   Deps
	det    *detector.Detector
	recent *RecentSignals

	states map[string]*detector.SymbolState

	mu        sync.RWMutex
	snapshots map[string]models.SymbolSnapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor builds a monitor. Defaults fill any zero config fields.
func NewMonitor(cfg MonitorConfig, deps Deps) *Monitor {
	if cfg.Period == "" {
		cfg.Period = "7d"
	}
	if cfg.Interval == "" {
		cfg.Interval = drepo.DefaultInterval()
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 15 * time.Minute
	}
	if cfg.SymbolPause < 0 {
		cfg.SymbolPause = 0
	}
	if cfg.Params == (indicator.Params{}) {
		cfg.Params = indicator.DefaultParams()
	}
	if cfg.Detector == (detector.Config{}) {
		cfg.Detector = detector.DefaultConfig()
	}
	return &Monitor{
		cfg:       cfg,
		deps:      deps,
		det:       detector.New(cfg.Detector),
		recent:    NewRecentSignals(200),
		states:    make(map[string]*detector.SymbolState),
		snapshots: make(map[string]models.SymbolSnapshot),
		done:      make(chan struct{}),
	}
}

// Recent exposes the signal history for the dashboard.
func (m *Monitor) Recent() *RecentSignals { return m.recent }

// Snapshots lists the latest per-symbol indicator snapshots, ordered by
// symbol.
func (m *Monitor) Snapshots() []models.SymbolSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.SymbolSnapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Snapshot returns the latest snapshot for one symbol.
func (m *Monitor) Snapshot(symbol string) (models.SymbolSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[symbol]
	return s, ok
}

// Start launches the detection loop. The first pass runs immediately.
func (m *Monitor) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.run(runCtx)
	m.deps.Log.Info("monitor started",
		applogger.Strings("symbols", m.cfg.Symbols),
		applogger.Duration("check_interval", m.cfg.CheckInterval))
	return nil
}

// Shutdown cancels the loop and waits for the current cycle to finish,
// bounded by ctx.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	m.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RunCycle(ctx)
		}
	}
}

// RunCycle performs one pass over the symbol list. A failure on one
// symbol never aborts the pass.
func (m *Monitor) RunCycle(ctx context.Context) {
	for i, symbol := range m.cfg.Symbols {
		if ctx.Err() != nil {
			return
		}
		m.checkSymbol(ctx, symbol)
		if m.cfg.SymbolPause > 0 && i < len(m.cfg.Symbols)-1 {
			t := time.NewTimer(m.cfg.SymbolPause)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}
}

func (m *Monitor) checkSymbol(ctx context.Context, symbol string) {
	start := time.Now()
	defer func() {
		m.deps.Metrics.RecordLatency("check_symbol", time.Since(start).Seconds())
	}()

	bars, ok := m.deps.Market.Bars(ctx, symbol, m.cfg.Period, m.cfg.Interval)
	if !ok || len(bars) == 0 {
		m.deps.Metrics.RecordError("market_data")
		return
	}

	if m.deps.Archive != nil {
		if err := m.deps.Archive.StoreBatch(ctx, symbol, m.cfg.Interval, bars); err != nil {
			m.deps.Metrics.RecordError("archive")
			m.deps.Log.Warn("candle archive write failed",
				applogger.String("symbol", symbol), applogger.Error(err))
		}
	}

	frame, err := indicator.Compute(bars, m.cfg.Params)
	if err != nil {
		m.deps.Metrics.RecordError("indicator")
		return
	}

	last, _ := bars.Last()
	m.deps.Metrics.RecordLastPrice(symbol, last.Close)
	m.deps.Sink.OnPrice(models.PriceUpdate{Symbol: symbol, Price: last.Close, Time: last.Time})

	snap := models.SymbolSnapshot{
		Symbol:     symbol,
		Price:      last.Close,
		Indicators: frame.Latest(),
		UpdatedAt:  time.Now(),
	}
	m.mu.Lock()
	m.snapshots[symbol] = snap
	m.mu.Unlock()
	m.deps.Sink.OnIndicators(snap)

	conf, _ := m.deps.Confirm.Analysis(ctx, symbol, m.cfg.Interval)

	st, ok := m.states[symbol]
	if !ok {
		st = detector.NewSymbolState()
		m.states[symbol] = st
	}
	for _, sig := range m.det.Detect(symbol, bars, frame, st, conf) {
		m.dispatch(ctx, sig)
	}
}

func (m *Monitor) dispatch(ctx context.Context, sig models.Signal) {
	m.deps.Log.Info("signal detected",
		applogger.String("symbol", sig.Symbol),
		applogger.String("direction", string(sig.Direction)),
		applogger.String("indicator", sig.Indicator),
		applogger.String("strength", string(sig.Strength)))

	m.deps.Metrics.RecordSignal(sig.Symbol, sig.Indicator, string(sig.Direction))
	m.recent.Add(sig)
	m.deps.Sink.OnSignal(sig)

	if !m.deps.Notifier.SendAlert(ctx, sig) {
		m.deps.Log.Debug("alert not delivered", applogger.String("symbol", sig.Symbol))
	}
	if m.deps.Publisher != nil {
		if err := m.deps.Publisher.Publish(ctx, sig); err != nil {
			m.deps.Metrics.RecordError("publisher")
			m.deps.Log.Warn("signal publish failed",
				applogger.String("symbol", sig.Symbol), applogger.Error(err))
		}
	}
}
