package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

// Config represents the application configuration.
type Config struct {
	Scraper   ScraperConfig        `toml:"scraper"`
	Promo     PromoConfig          `toml:"promo"`
	Telegram  TelegramConfig       `toml:"telegram"`
	Scenarios []ScenarioConfig     `toml:"scenarios"`
	Storage   StorageConfig        `toml:"storage"`
	Logging   common.LoggingConfig `toml:"logging"`
}

// ScraperConfig controls the quote scrape batch.
type ScraperConfig struct {
	URL             string         `toml:"url"`
	Quantity        int            `toml:"quantity"`
	WaitSeconds     int            `toml:"wait_seconds"`
	IntervalMinutes int            `toml:"interval_minutes"`
	Headless        bool           `toml:"headless"`
	Targets         []TargetConfig `toml:"targets"`
}

// WaitDuration returns the bounded wait for a quote result to render.
func (s ScraperConfig) WaitDuration() time.Duration {
	if s.WaitSeconds <= 0 {
		return 25 * time.Second
	}
	return time.Duration(s.WaitSeconds) * time.Second
}

// Interval returns the pause between scheduled scrape batches.
func (s ScraperConfig) Interval() time.Duration {
	if s.IntervalMinutes <= 0 {
		return 6 * time.Hour
	}
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// TargetConfig names one program to quote and the form option that selects it.
type TargetConfig struct {
	Program      string `toml:"program"`
	SelectOption string `toml:"select_option"`
}

// PromoConfig controls the promotion feed scanner.
type PromoConfig struct {
	Feeds           []string `toml:"feeds"`
	IntervalMinutes int      `toml:"interval_minutes"`
	MaxEntries      int      `toml:"max_entries"`
}

// Interval returns the pause between scheduled feed scans.
func (p PromoConfig) Interval() time.Duration {
	if p.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// TelegramConfig holds Bot API credentials for outbound notifications.
// Both fields empty disables notification entirely.
type TelegramConfig struct {
	Token  string `toml:"token"`
	ChatID string `toml:"chat_id"`
}

// ScenarioConfig is one configured point-acquisition route.
type ScenarioConfig struct {
	Source      string  `toml:"source"`
	BasePrice   float64 `toml:"base_price"`
	DiscountPct float64 `toml:"discount_pct"`
	BonusPct    float64 `toml:"bonus_pct"`
	Destination string  `toml:"destination"`
}

// ToModel converts the configured scenario into its domain form.
func (s ScenarioConfig) ToModel() models.AcquisitionScenario {
	return models.AcquisitionScenario{
		SourceProgram:      models.CanonicalProgram(s.Source),
		BasePrice:          s.BasePrice,
		DiscountPct:        s.DiscountPct,
		BonusPct:           s.BonusPct,
		DestinationProgram: models.CanonicalProgram(s.Destination),
	}
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// ScenarioModels returns all configured scenarios in domain form.
func (c *Config) ScenarioModels() []models.AcquisitionScenario {
	out := make([]models.AcquisitionScenario, 0, len(c.Scenarios))
	for _, s := range c.Scenarios {
		out = append(out, s.ToModel())
	}
	return out
}

// Validate returns human-readable issues for mandatory fields.
func (c *Config) Validate() []string {
	var issues []string
	if c.Scraper.URL == "" {
		issues = append(issues, "scraper.url is required (the quoting site to scrape)")
	}
	if c.Scraper.Quantity <= 0 {
		issues = append(issues, "scraper.quantity must be a positive point quantity")
	}
	if len(c.Scraper.Targets) == 0 {
		issues = append(issues, "scraper.targets must name at least one program")
	}
	return issues
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies MILHAS_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if url := os.Getenv("MILHAS_SCRAPER_URL"); url != "" {
		config.Scraper.URL = url
	}
	if qty := os.Getenv("MILHAS_SCRAPER_QUANTITY"); qty != "" {
		if q, err := strconv.Atoi(qty); err == nil {
			config.Scraper.Quantity = q
		}
	}
	if token := os.Getenv("MILHAS_TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if chatID := os.Getenv("MILHAS_TELEGRAM_CHAT_ID"); chatID != "" {
		config.Telegram.ChatID = chatID
	}
	if badgerPath := os.Getenv("MILHAS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("MILHAS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
