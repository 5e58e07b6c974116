package repository

import (
	"context"
	"time"

	"FxPulse/internal/domain/models"
)

// MarketData supplies ordered OHLC series. A failed or empty fetch
// returns (nil, false); providers never propagate transport errors
// past this boundary.
type MarketData interface {
	Bars(ctx context.Context, symbol, period, interval string) (models.Series, bool)
}

// Notifier delivers one alert per fired signal. Delivery failure is
// non-fatal; the caller logs it and moves on.
type Notifier interface {
	SendAlert(ctx context.Context, sig models.Signal) bool
}

// EventSink receives the three dashboard event kinds pushed after each
// detection cycle.
type EventSink interface {
	OnSignal(sig models.Signal)
	OnPrice(update models.PriceUpdate)
	OnIndicators(snap models.SymbolSnapshot)
}

// ConfirmationSource provides the external consensus analysis. All
// failure modes (disabled, unmapped symbol, throttled out, transport
// error) degrade to (nil, false).
type ConfirmationSource interface {
	Analysis(ctx context.Context, symbol, interval string) (*models.Confirmation, bool)
	Confidence(c *models.Confirmation) models.Confidence
}

// CandleArchive stores fetched bars so the dashboard can serve chart
// history. Writes are best effort.
type CandleArchive interface {
	StoreBatch(ctx context.Context, symbol, interval string, bars models.Series) error
	Query(ctx context.Context, symbol, interval string, from, to time.Time, limit int) (models.Series, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher forwards signal events to an external bus.
type SignalPublisher interface {
	Publish(ctx context.Context, sig models.Signal) error
	Close() error
}

// Metrics records operational counters for the monitoring loop.
type Metrics interface {
	RecordSignal(symbol, indicator, direction string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
