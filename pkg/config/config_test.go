package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
monitor:
  symbols: ["EURUSD=X", "GBPUSD=X"]
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Server.Port != 8080 {
		t.Fatalf("server.port default: %d", c.Server.Port)
	}
	if c.Monitor.CheckInterval != 15*time.Minute {
		t.Fatalf("monitor.check_interval default: %v", c.Monitor.CheckInterval)
	}
	if c.Indicators.RSIPeriod != 14 || c.Indicators.EMATrend != 200 {
		t.Fatalf("indicator defaults: %+v", c.Indicators)
	}
	if c.Detector.RSIOversold != 30 || c.Detector.TakeProfitATR != 2.0 {
		t.Fatalf("detector defaults: %+v", c.Detector)
	}
	if !c.Detector.EnableRSI || !c.Detector.EnableProStrategy {
		t.Fatalf("detector toggles should default on: %+v", c.Detector)
	}
	if c.Confirmation.MinFetchInterval != 3*time.Second {
		t.Fatalf("confirmation pacing default: %v", c.Confirmation.MinFetchInterval)
	}
	if c.Kafka.Topic != "fx.signals" {
		t.Fatalf("kafka.topic default: %s", c.Kafka.Topic)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: test
monitor:
  symbols: ["EURUSD=X"]
  check_interval: 5m
detector:
  rsi_oversold: 25
  rsi_overbought: 75
  enable_macd: false
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Monitor.CheckInterval != 5*time.Minute {
		t.Fatalf("check_interval not overridden: %v", c.Monitor.CheckInterval)
	}
	if c.Detector.RSIOversold != 25 || c.Detector.RSIOverbought != 75 {
		t.Fatalf("thresholds not overridden: %+v", c.Detector)
	}
	if c.Detector.EnableMACD {
		t.Fatal("enable_macd: false should override the default")
	}
	if !c.Detector.EnableRSI {
		t.Fatalf("unset toggles should keep their defaults: %+v", c.Detector)
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"no environment", "monitor:\n  symbols: [\"EURUSD=X\"]\n", "environment"},
		{"no symbols", "environment: test\n", "symbols"},
		{
			"inverted thresholds",
			minimalConfig + "detector:\n  rsi_oversold: 80\n  rsi_overbought: 20\n",
			"thresholds",
		},
		{
			"confirmation without url",
			minimalConfig + "confirmation:\n  enabled: true\n",
			"base_url",
		},
		{
			"telegram without token",
			minimalConfig + "telegram:\n  enabled: true\n",
			"token",
		},
		{
			"clickhouse without host",
			minimalConfig + "clickhouse:\n  enabled: true\n",
			"host",
		},
		{
			"kafka without brokers",
			minimalConfig + "kafka:\n  enabled: true\n",
			"brokers",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "USDJPY=X,AUDUSD=X")
	t.Setenv("TELEGRAM_BOT_TOKEN", "secret-token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig+"telegram:\n  enabled: true\n  token: from-file\n  chat_id: 1\n"))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if len(c.Monitor.Symbols) != 2 || c.Monitor.Symbols[0] != "USDJPY=X" {
		t.Fatalf("SYMBOLS override failed: %v", c.Monitor.Symbols)
	}
	if c.Telegram.Token != "secret-token" || c.Telegram.ChatID != 12345 {
		t.Fatalf("telegram overrides failed: %+v", c.Telegram)
	}
}

func TestLoadWithEnvBadChatID(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	if _, err := LoadWithEnv(writeConfig(t, minimalConfig)); err == nil {
		t.Fatal("expected parse error")
	}
}
