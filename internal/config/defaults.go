package config

import "github.com/brmiles/milhas-radar/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			URL:             "https://hotmilhas.com.br/",
			Quantity:        100000,
			WaitSeconds:     25,
			IntervalMinutes: 360,
			Headless:        true,
			Targets: []TargetConfig{
				{Program: "Latam Pass", SelectOption: "2"},
				{Program: "Smiles", SelectOption: "3"},
				{Program: "TudoAzul", SelectOption: "4"},
			},
		},
		Promo: PromoConfig{
			Feeds: []string{
				"https://passageirodeprimeira.com/feed/",
				"https://pontospravoar.com/feed/",
				"https://www.melhoresdestinos.com.br/feed",
			},
			IntervalMinutes: 60,
			MaxEntries:      10,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/milhas",
			},
		},
		Logging: common.LoggingConfig{
			Level: "info",
		},
	}
}
