package infra

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `
api:
  bithumb:
    rest_url: https://api.bithumb.com
    symbols: [BTC, ETH]
  binance:
    rest_url: https://api.binance.com
    symbols:
      BTC: BTCUSDT
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.API.Bithumb.Symbols) != 2 {
		t.Errorf("expected 2 symbols, got %d", len(cfg.API.Bithumb.Symbols))
	}
	if cfg.API.Binance.Symbols["BTC"] != "BTCUSDT" {
		t.Errorf("pair mapping lost: %v", cfg.API.Binance.Symbols)
	}

	// Defaults fill the omitted sections
	if cfg.Market.PollIntervalSec != 5 {
		t.Errorf("expected default poll interval 5, got %d", cfg.Market.PollIntervalSec)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.API.FxRate.PollIntervalSec != 60 {
		t.Errorf("expected default FX interval 60, got %d", cfg.API.FxRate.PollIntervalSec)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TRADER_BITHUMB_KEY", "env-access-key")
	t.Setenv("TRADER_SERVER_ADDR", ":9999")

	cfg, err := LoadConfig(writeConfigFile(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.Bithumb.AccessKey != "env-access-key" {
		t.Errorf("env key override lost: %s", cfg.API.Bithumb.AccessKey)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("env addr override lost: %s", cfg.Server.Addr)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad bithumb url": `
api:
  bithumb:
    rest_url: not-a-url
    symbols: [BTC]
`,
		"no symbols": `
api:
  bithumb:
    rest_url: https://api.bithumb.com
    symbols: []
`,
	}
	for name, content := range cases {
		if _, err := LoadConfig(writeConfigFile(t, content)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
