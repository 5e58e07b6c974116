package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"FxPulse/internal/domain/models"
	"FxPulse/internal/service/cache"
	applogger "FxPulse/pkg/logger"
)

// Config tunes the adapter's caching and pacing.
type Config struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`

	// CacheTTL bounds how long one analysis answers for a symbol,
	// negative results included.
	CacheTTL time.Duration `yaml:"cache_ttl" default:"5m"`

	// MinFetchInterval spaces consecutive requests to the service
	// across all symbols.
	MinFetchInterval time.Duration `yaml:"min_fetch_interval" default:"3s"`

	MaxAttempts       int           `yaml:"max_attempts" default:"3"`
	RetryBackoff      time.Duration `yaml:"retry_backoff" default:"5s"`
	RateLimitCooldown time.Duration `yaml:"rate_limit_cooldown" default:"60s"`
}

// Adapter caches and paces access to the analysis service. When
// disabled or when the symbol has no mapping it answers immediately
// without touching the network.
type Adapter struct {
	cfg     Config
	fetcher Fetcher
	cache   *cache.TTLCache
	log     *applogger.Logger

	mu           sync.Mutex
	lastFetch    time.Time
	limitedUntil time.Time

	// Injected clock and sleeper, overridden in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds an adapter around the given fetcher.
func New(cfg Config, fetcher Fetcher, log *applogger.Logger) *Adapter {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.MinFetchInterval <= 0 {
		cfg.MinFetchInterval = 3 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 5 * time.Second
	}
	if cfg.RateLimitCooldown <= 0 {
		cfg.RateLimitCooldown = time.Minute
	}
	return &Adapter{
		cfg:     cfg,
		fetcher: fetcher,
		cache:   cache.NewTTLCache(),
		log:     log,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Analysis returns the consensus analysis for a symbol, consulting the
// cache first. A pending rate-limit cooldown is waited out before the
// fetch, as is the minimum spacing between requests. ok is false when
// the adapter is disabled, the symbol is unmapped, or the fetch fails.
// Failed fetches are cached negatively so a broken symbol does not retry
// on every cycle.
func (a *Adapter) Analysis(ctx context.Context, symbol, interval string) (*models.Confirmation, bool) {
	if !a.cfg.Enabled {
		return nil, false
	}
	target, ok := TargetFor(symbol)
	if !ok {
		return nil, false
	}

	key := symbol + "|" + interval
	if v, hit := a.cache.Get(key); hit {
		conf, _ := v.(*models.Confirmation)
		return conf, conf != nil
	}

	now := a.now()
	a.mu.Lock()
	wait := a.cfg.MinFetchInterval - now.Sub(a.lastFetch)
	if cool := a.limitedUntil.Sub(now); cool > wait {
		wait = cool
	}
	a.mu.Unlock()
	if wait > 0 {
		if err := a.sleep(ctx, wait); err != nil {
			return nil, false
		}
	}

	conf, ok := a.fetchWithRetry(ctx, target, interval, symbol)
	if !ok {
		return nil, false
	}
	a.cache.Set(key, conf, a.cfg.CacheTTL)
	return conf, true
}

func (a *Adapter) fetchWithRetry(ctx context.Context, target Target, interval, symbol string) (*models.Confirmation, bool) {
	key := symbol + "|" + interval
	backoff := a.cfg.RetryBackoff
	for attempt := 1; ; attempt++ {
		a.mu.Lock()
		a.lastFetch = a.now()
		a.mu.Unlock()

		conf, err := a.fetcher.Fetch(ctx, target, interval)
		if err == nil {
			return conf, true
		}
		if !errors.Is(err, ErrThrottled) {
			a.log.Warn("confirmation fetch failed",
				applogger.String("symbol", symbol),
				applogger.Error(err))
			a.cache.Set(key, (*models.Confirmation)(nil), a.cfg.CacheTTL)
			return nil, false
		}
		if attempt >= a.cfg.MaxAttempts {
			a.mu.Lock()
			a.limitedUntil = a.now().Add(a.cfg.RateLimitCooldown)
			a.mu.Unlock()
			a.log.Warn("analysis service rate limited, backing off",
				applogger.String("symbol", symbol),
				applogger.Duration("cooldown", a.cfg.RateLimitCooldown))
			a.cache.Set(key, (*models.Confirmation)(nil), a.cfg.CacheTTL)
			return nil, false
		}
		// Every throttle pushes the global cooldown so concurrent callers
		// hold off while this one backs off.
		a.mu.Lock()
		a.limitedUntil = a.now().Add(backoff)
		a.mu.Unlock()
		if err := a.sleep(ctx, backoff); err != nil {
			return nil, false
		}
		backoff *= 2
	}
}

// Confidence classifies a confirmation's vote dominance. A nil
// confirmation reads as LOW.
func (a *Adapter) Confidence(conf *models.Confirmation) models.Confidence {
	if conf == nil {
		return models.ConfidenceLow
	}
	return conf.ConfidenceTier()
}
