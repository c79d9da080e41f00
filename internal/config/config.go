package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"HoldingsView/internal/period"
)

// allowedSMAWindows are the moving averages a series result can carry.
var allowedSMAWindows = map[int]bool{20: true, 50: true, 100: true, 150: true, 200: true}

// LogConfig configures the application logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // json or console
	Environment string `yaml:"environment"`
	OutputFile  string `yaml:"output_file"`
}

// Config holds all application configuration.
type Config struct {
	Upstream struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Source  string        `yaml:"source"` // backend or yahoo
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`
	Indicators struct {
		SMAWindows   []int `yaml:"sma_windows"`
		AlignToDates bool  `yaml:"align_to_dates"`
	} `yaml:"indicators"`
	Cache struct {
		TTL     time.Duration `yaml:"ttl"`
		Cleanup time.Duration `yaml:"cleanup"`
	} `yaml:"cache"`
	Watchlist struct {
		Symbols     []string `yaml:"symbols"`
		Period      string   `yaml:"period"`
		Interval    string   `yaml:"interval"`
		RefreshCron string   `yaml:"refresh_cron"`
		Concurrency int      `yaml:"concurrency"`
	} `yaml:"watchlist"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log   LogConfig `yaml:"log"`
	Proxy string    `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HISTORY_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("HISTORY_API_KEY"); v != "" {
		cfg.Upstream.APIKey = v
	}
	if v := os.Getenv("HISTORY_SOURCE"); v != "" {
		cfg.Upstream.Source = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("ALIGN_TO_DATES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Indicators.AlignToDates = b
		}
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "http://localhost:8000/api"
	}
	if cfg.Upstream.Source == "" {
		cfg.Upstream.Source = "backend"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 30 * time.Second
	}
	if len(cfg.Indicators.SMAWindows) == 0 {
		cfg.Indicators.SMAWindows = []int{20, 50, 100, 150, 200}
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.Cleanup == 0 {
		cfg.Cache.Cleanup = 10 * time.Minute
	}
	if cfg.Watchlist.Period == "" {
		cfg.Watchlist.Period = "1y"
	}
	if cfg.Watchlist.Interval == "" {
		cfg.Watchlist.Interval = "1d"
	}
	if cfg.Watchlist.RefreshCron == "" {
		cfg.Watchlist.RefreshCron = "0 0 22 * * 1-5"
	}
	if cfg.Watchlist.Concurrency == 0 {
		cfg.Watchlist.Concurrency = 4
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/holdings_view.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
// Telegram is optional, but token and chat ID must be set together.
func (c *Config) Validate() error {
	switch c.Upstream.Source {
	case "backend":
		if c.Upstream.BaseURL == "" {
			return fmt.Errorf("upstream.base_url is required for the backend source")
		}
	case "yahoo":
	default:
		return fmt.Errorf("upstream.source must be backend or yahoo, got %q", c.Upstream.Source)
	}
	for _, w := range c.Indicators.SMAWindows {
		if !allowedSMAWindows[w] {
			return fmt.Errorf("indicators.sma_windows: unsupported window %d", w)
		}
	}
	if !period.ValidInterval(c.Watchlist.Interval) {
		return fmt.Errorf("watchlist.interval: unknown interval %q", c.Watchlist.Interval)
	}
	if c.Watchlist.Concurrency < 0 {
		return fmt.Errorf("watchlist.concurrency must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
