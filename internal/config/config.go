// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"nfl_bot/internal/nfl"
)

// MinPollInterval is the floor on the scheduler tick interval. Anything
// lower would hammer the feed hosts for no benefit.
const MinPollInterval = 20 * time.Second

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string   `env:"TELEGRAM_BOT_TOKEN"`
	DatabasePath     string   `env:"DATABASE_PATH" envDefault:"./data/bot.db"`
	LogLevel         string   `env:"LOG_LEVEL" envDefault:"info"`
	DefaultFeeds     []string `env:"FEEDS" envSeparator:","`
	PollSeconds      int      `env:"POLL_SECONDS" envDefault:"90"`
	SeenTTLDays      int      `env:"SEEN_TTL_DAYS" envDefault:"30"`
	HealthAddr       string   `env:"HEALTH_ADDR"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.PollSeconds < 1 {
		return nil, fmt.Errorf("POLL_SECONDS must be positive, got %d", cfg.PollSeconds)
	}
	if cfg.SeenTTLDays < 1 {
		return nil, fmt.Errorf("SEEN_TTL_DAYS must be positive, got %d", cfg.SeenTTLDays)
	}

	// FEEDS values like "https://a/rss, https://b/rss," are common; stray
	// whitespace or a trailing comma must not produce a dead feed entry.
	cfg.DefaultFeeds = cleanFeeds(cfg.DefaultFeeds)
	if len(cfg.DefaultFeeds) == 0 {
		cfg.DefaultFeeds = nfl.SourceFeeds(nfl.SourceAll)
	}

	return &cfg, nil
}

// cleanFeeds trims each feed URL and drops empty entries.
func cleanFeeds(feeds []string) []string {
	var out []string
	for _, f := range feeds {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// PollInterval returns the scheduler tick interval with the floor applied.
func (c *Config) PollInterval() time.Duration {
	d := time.Duration(c.PollSeconds) * time.Second
	if d < MinPollInterval {
		return MinPollInterval
	}
	return d
}

// SeenTTL returns how long seen-set records are retained before eviction.
func (c *Config) SeenTTL() time.Duration {
	return time.Duration(c.SeenTTLDays) * 24 * time.Hour
}
