// Package marketdata fetches OHLC candle history from the public chart
// API and caches it briefly so repeated reads within one cycle do not
// refetch.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FxPulse/internal/domain/models"
	"FxPulse/pkg/cache"
	"FxPulse/pkg/http"
	applogger "FxPulse/pkg/logger"
)

// Config tunes the chart API provider.
type Config struct {
	BaseURL  string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
	Timeout  time.Duration `yaml:"timeout" default:"10s"`
	CacheTTL time.Duration `yaml:"cache_ttl" default:"30s"`
}

// Provider implements the market data source over the chart REST API.
type Provider struct {
	cfg    Config
	client *http.Client
	cache  cache.Service
	log    *applogger.Logger
}

// New builds a provider. The cache backend is injected so deployments
// can share fetched bars through Redis; in-process memory works too.
func New(cfg Config, c cache.Service, log *applogger.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &Provider{
		cfg:    cfg,
		client: http.NewClient(http.WithTimeout(cfg.Timeout)),
		cache:  c,
		log:    log,
	}
}

// chartResponse mirrors the chart API envelope. Quote arrays carry null
// for bars the venue never printed; those rows are dropped.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Bars returns the candle history for symbol over the given range and
// interval. ok is false on any failure; the cause is logged, not
// returned, so one broken symbol cannot stall the monitoring cycle.
func (p *Provider) Bars(ctx context.Context, symbol, period, interval string) (models.Series, bool) {
	key := fmt.Sprintf("bars:%s:%s:%s", symbol, period, interval)

	var cached string
	if err := p.cache.Get(ctx, key, &cached); err == nil {
		var bars models.Series
		if err := json.Unmarshal([]byte(cached), &bars); err == nil {
			return bars, true
		}
		// A corrupt entry would shadow every refetch until it expires.
		if err := p.cache.Delete(ctx, key); err != nil {
			p.log.Debug("bar cache eviction failed", applogger.Error(err))
		}
	}

	bars, err := p.fetch(ctx, symbol, period, interval)
	if err != nil {
		p.log.Warn("market data fetch failed",
			applogger.String("symbol", symbol),
			applogger.String("interval", interval),
			applogger.Error(err))
		return nil, false
	}

	if encoded, err := json.Marshal(bars); err == nil {
		if err := p.cache.Set(ctx, key, string(encoded), p.cfg.CacheTTL); err != nil {
			p.log.Debug("bar cache write failed", applogger.Error(err))
		}
	}
	return bars, true
}

func (p *Provider) fetch(ctx context.Context, symbol, period, interval string) (models.Series, error) {
	var raw chartResponse
	err := p.client.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", p.cfg.BaseURL, symbol),
		QueryParams: map[string][]string{
			"range":    {period},
			"interval": {interval},
		},
		Headers: map[string]string{"User-Agent": "Mozilla/5.0"},
	}, &raw)
	if err != nil {
		return nil, err
	}

	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("chart api: %s: %s", raw.Chart.Error.Code, raw.Chart.Error.Description)
	}
	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart api: empty result for %s", symbol)
	}

	res := raw.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	bars := make(models.Series, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil ||
			quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil {
			continue
		}
		bars = append(bars, models.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("chart api: no printable bars for %s", symbol)
	}
	return bars, nil
}
