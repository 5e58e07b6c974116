package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`

	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`

	Logging struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"json"`
		Output     string `yaml:"output" default:"stdout"`
		TimeFormat string `yaml:"time_format"`
	} `yaml:"logging"`

	Monitor struct {
		Symbols       []string      `yaml:"symbols"`
		Period        string        `yaml:"period" default:"7d"`
		Interval      string        `yaml:"interval" default:"1h"`
		CheckInterval time.Duration `yaml:"check_interval" default:"15m"`
		SymbolPause   time.Duration `yaml:"symbol_pause" default:"100ms"`
	} `yaml:"monitor"`

	Indicators struct {
		RSIPeriod  int `yaml:"rsi_period" default:"14"`
		MACDFast   int `yaml:"macd_fast" default:"12"`
		MACDSlow   int `yaml:"macd_slow" default:"26"`
		MACDSignal int `yaml:"macd_signal" default:"9"`
		SMAFast    int `yaml:"sma_fast" default:"20"`
		SMASlow    int `yaml:"sma_slow" default:"50"`
		EMAFast    int `yaml:"ema_fast" default:"12"`
		EMASlow    int `yaml:"ema_slow" default:"26"`
		EMATrend   int `yaml:"ema_trend" default:"200"`
		ATRPeriod  int `yaml:"atr_period" default:"14"`
	} `yaml:"indicators"`

	Detector struct {
		RSIOversold   float64 `yaml:"rsi_oversold" default:"30"`
		RSIOverbought float64 `yaml:"rsi_overbought" default:"70"`
		StopLossATR   float64 `yaml:"stop_loss_atr" default:"1.5"`
		TakeProfitATR float64 `yaml:"take_profit_atr" default:"2.0"`

		EnableRSI         bool `yaml:"enable_rsi" default:"true"`
		EnableMACD        bool `yaml:"enable_macd" default:"true"`
		EnableEMACross    bool `yaml:"enable_ema_cross" default:"true"`
		EnableProStrategy bool `yaml:"enable_pro_strategy" default:"true"`
		EnableConsensus   bool `yaml:"enable_consensus" default:"true"`
	} `yaml:"detector"`

	MarketData struct {
		BaseURL  string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"30s"`
	} `yaml:"market_data"`

	Confirmation struct {
		Enabled           bool          `yaml:"enabled"`
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout" default:"10s"`
		CacheTTL          time.Duration `yaml:"cache_ttl" default:"5m"`
		MinFetchInterval  time.Duration `yaml:"min_fetch_interval" default:"3s"`
		MaxAttempts       int           `yaml:"max_attempts" default:"3"`
		RetryBackoff      time.Duration `yaml:"retry_backoff" default:"5s"`
		RateLimitCooldown time.Duration `yaml:"rate_limit_cooldown" default:"60s"`
	} `yaml:"confirmation"`

	Telegram struct {
		Enabled bool   `yaml:"enabled"`
		Token   string `yaml:"token"`
		ChatID  int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"default"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table" default:"fx_candles"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`

	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"fx.signals"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file. Zero fields take
// their declared defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Defaults are applied before parsing so an explicit false in the
	// file can override a default-true flag.
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables, so secrets stay out of the file.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Monitor.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("CONFIRMATION_BASE_URL"); v != "" {
		c.Confirmation.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	// Re-check cross-field constraints after overrides.
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks the configuration for inconsistencies that would only
// surface at runtime otherwise.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Monitor.Symbols) == 0 {
		return fmt.Errorf("monitor.symbols cannot be empty")
	}
	if c.Detector.RSIOversold <= 0 || c.Detector.RSIOverbought >= 100 ||
		c.Detector.RSIOversold >= c.Detector.RSIOverbought {
		return fmt.Errorf("detector RSI thresholds must satisfy 0 < oversold < overbought < 100")
	}
	if c.Detector.StopLossATR <= 0 || c.Detector.TakeProfitATR <= 0 {
		return fmt.Errorf("detector ATR multipliers must be positive")
	}
	if c.Confirmation.Enabled && c.Confirmation.BaseURL == "" {
		return fmt.Errorf("confirmation.base_url is required when confirmation is enabled")
	}
	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			return fmt.Errorf("telegram.token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
