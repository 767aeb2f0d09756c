package infra

import (
	"fmt"
	"os"

	"github.com/hangerine/coin-trader/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수를 통해 민감 내용을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Bithumb struct {
			RestURL   string   `yaml:"rest_url"`
			AccessKey string   `yaml:"access_key"`
			SecretKey string   `yaml:"secret_key"`
			Symbols   []string `yaml:"symbols"`
		} `yaml:"bithumb"`
		Binance struct {
			RestURL string            `yaml:"rest_url"`
			Symbols map[string]string `yaml:"symbols"` // asset -> venue pair, e.g. BTC: BTCUSDT
		} `yaml:"binance"`
		FxRate struct {
			URL             string `yaml:"url"`
			PollIntervalSec int    `yaml:"poll_interval_sec"`
		} `yaml:"fx_rate"`
	} `yaml:"api"`

	Market struct {
		PollIntervalSec int `yaml:"poll_interval_sec"`
	} `yaml:"market"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "json" (default) or "text"
	} `yaml:"logging"`
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	// Optional .env for local development secrets; absence is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 보안 우선 - 환경 변수 오버라이드 지원
	overrideWithEnv(&cfg)

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Market.PollIntervalSec <= 0 {
		cfg.Market.PollIntervalSec = 5
	}
	if cfg.API.FxRate.PollIntervalSec <= 0 {
		cfg.API.FxRate.PollIntervalSec = 60
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.Bithumb.RestURL == "" || !hasPrefix(c.API.Bithumb.RestURL, "http") {
		return fmt.Errorf("invalid Bithumb REST URL: %s", c.API.Bithumb.RestURL)
	}
	if len(c.API.Bithumb.Symbols) == 0 {
		return fmt.Errorf("at least one Bithumb symbol is required")
	}
	if c.API.Binance.RestURL != "" && !hasPrefix(c.API.Binance.RestURL, "http") {
		return fmt.Errorf("invalid Binance REST URL: %s", c.API.Binance.RestURL)
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("TRADER_BITHUMB_KEY"); key != "" {
		cfg.API.Bithumb.AccessKey = key
	}
	if secret := os.Getenv("TRADER_BITHUMB_SECRET"); secret != "" {
		cfg.API.Bithumb.SecretKey = secret
	}
	if addr := os.Getenv("TRADER_SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
}
