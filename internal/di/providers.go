package di

import (
	"context"
	"fmt"
	"time"

	"FxPulse/internal/confirm"
	"FxPulse/internal/detector"
	drepo "FxPulse/internal/domain/repository"
	"FxPulse/internal/handler/api"
	"FxPulse/internal/handler/ws"
	"FxPulse/internal/indicator"
	"FxPulse/internal/marketdata"
	"FxPulse/internal/notify"
	internalrepo "FxPulse/internal/repository"
	"FxPulse/internal/usecase"
	"FxPulse/pkg/cache"
	pkgch "FxPulse/pkg/clickhouse"
	"FxPulse/pkg/config"
	xhttp "FxPulse/pkg/http"
	pkgkafka "FxPulse/pkg/kafka"
	applogger "FxPulse/pkg/logger"
	"FxPulse/pkg/metrics"
	"FxPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		TimeFormat: cfg.Logging.TimeFormat,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideBarCache picks the bar cache backend: Redis when enabled so
// replicas share fetches, in-process memory otherwise.
func ProvideBarCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix("fxpulse"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideMarketData creates the chart API provider.
func ProvideMarketData(cfg *config.Config, c cache.Service, log *applogger.Logger) drepo.MarketData {
	return marketdata.New(marketdata.Config{
		BaseURL:  cfg.MarketData.BaseURL,
		Timeout:  cfg.MarketData.Timeout,
		CacheTTL: cfg.MarketData.CacheTTL,
	}, c, log)
}

// ProvideConfirmation creates the consensus analysis adapter.
func ProvideConfirmation(cfg *config.Config, log *applogger.Logger) drepo.ConfirmationSource {
	ccfg := confirm.Config{
		Enabled:           cfg.Confirmation.Enabled,
		BaseURL:           cfg.Confirmation.BaseURL,
		Timeout:           cfg.Confirmation.Timeout,
		CacheTTL:          cfg.Confirmation.CacheTTL,
		MinFetchInterval:  cfg.Confirmation.MinFetchInterval,
		MaxAttempts:       cfg.Confirmation.MaxAttempts,
		RetryBackoff:      cfg.Confirmation.RetryBackoff,
		RateLimitCooldown: cfg.Confirmation.RateLimitCooldown,
	}
	return confirm.New(ccfg, confirm.NewHTTPFetcher(ccfg.BaseURL, ccfg.Timeout), log)
}

// ProvideNotifier creates the Telegram notifier.
func ProvideNotifier(cfg *config.Config, log *applogger.Logger) (drepo.Notifier, error) {
	return notify.NewTelegram(notify.Config{
		Enabled: cfg.Telegram.Enabled,
		Token:   cfg.Telegram.Token,
		ChatID:  cfg.Telegram.ChatID,
	}, log)
}

// ProvideClickHouseClient connects to ClickHouse and ensures the candle
// schema. Returns nil when the archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.CandleSchema(cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCandleArchive creates the candle archive over the ClickHouse
// pool. Nil when the archive is disabled.
func ProvideCandleArchive(chClient *pkgch.Client, cfg *config.Config) drepo.CandleArchive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseCandles(chClient.DB(), cfg.ClickHouse.Table)
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher, nil when
// Kafka is disabled.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) drepo.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignals(producer, cfg.Kafka.Topic)
}

// ProvideHub creates the dashboard WebSocket hub.
func ProvideHub(log *applogger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideMonitor assembles the detection loop.
func ProvideMonitor(
	cfg *config.Config,
	market drepo.MarketData,
	conf drepo.ConfirmationSource,
	notifier drepo.Notifier,
	hub *ws.Hub,
	archive drepo.CandleArchive,
	publisher drepo.SignalPublisher,
	m drepo.Metrics,
	log *applogger.Logger,
) *usecase.Monitor {
	return usecase.NewMonitor(usecase.MonitorConfig{
		Symbols:       cfg.Monitor.Symbols,
		Period:        cfg.Monitor.Period,
		Interval:      cfg.Monitor.Interval,
		CheckInterval: cfg.Monitor.CheckInterval,
		SymbolPause:   cfg.Monitor.SymbolPause,
		Params: indicator.Params{
			RSIPeriod:  cfg.Indicators.RSIPeriod,
			MACDFast:   cfg.Indicators.MACDFast,
			MACDSlow:   cfg.Indicators.MACDSlow,
			MACDSignal: cfg.Indicators.MACDSignal,
			SMAFast:    cfg.Indicators.SMAFast,
			SMASlow:    cfg.Indicators.SMASlow,
			EMAFast:    cfg.Indicators.EMAFast,
			EMASlow:    cfg.Indicators.EMASlow,
			EMATrend:   cfg.Indicators.EMATrend,
			ATRPeriod:  cfg.Indicators.ATRPeriod,
		},
		Detector: detector.Config{
			RSIOversold:       cfg.Detector.RSIOversold,
			RSIOverbought:     cfg.Detector.RSIOverbought,
			StopLossATR:       cfg.Detector.StopLossATR,
			TakeProfitATR:     cfg.Detector.TakeProfitATR,
			EnableRSI:         cfg.Detector.EnableRSI,
			EnableMACD:        cfg.Detector.EnableMACD,
			EnableEMACross:    cfg.Detector.EnableEMACross,
			EnableProStrategy: cfg.Detector.EnableProStrategy,
			EnableConsensus:   cfg.Detector.EnableConsensus,
		},
	}, usecase.Deps{
		Market:    market,
		Confirm:   conf,
		Notifier:  notifier,
		Sink:      hub,
		Archive:   archive,
		Publisher: publisher,
		Metrics:   m,
		Log:       log,
	})
}

// ProvideDashboardHandler creates the REST handler.
func ProvideDashboardHandler(log *applogger.Logger, monitor *usecase.Monitor, archive drepo.CandleArchive) xhttp.Handler {
	return api.NewDashboardHandler(log, monitor, archive)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	monitor *usecase.Monitor,
	hub *ws.Hub,
	handler xhttp.Handler,
	publisher drepo.SignalPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, monitor, hub, handler, publisher, chClient)
}
