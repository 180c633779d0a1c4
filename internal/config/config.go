// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files,
// command-line arguments and YAML route files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

// DefaultAPIKey is the credential used when neither the command line nor the environment
// provides one. It can be set at build time with -ldflags "-X .../internal/config.DefaultAPIKey=...".
var DefaultAPIKey = ""

// Config holds all application configuration.
type Config struct {
	Tequila TequilaConfig
	Search  SearchConfig
	Scan    ScanConfig
	Logging LoggingConfig
}

// TequilaConfig holds flight-search API settings.
type TequilaConfig struct {
	APIKey  string        `env:"KIWI_API_KEY"`
	BaseURL string        `env:"TEQUILA_BASE_URL" envDefault:"https://api.tequila.kiwi.com/v2"`
	Timeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"30s"`
}

// SearchConfig holds the global filters applied to every route query.
type SearchConfig struct {
	Currency    string `env:"SEARCH_CURRENCY" envDefault:"USD"`
	NightsFrom  int    `env:"SEARCH_NIGHTS_FROM" envDefault:"2"`
	NightsTo    int    `env:"SEARCH_NIGHTS_TO" envDefault:"14"`
	ResultLimit int    `env:"SEARCH_RESULT_LIMIT" envDefault:"10"`
	DateFrom    string `env:"SEARCH_DATE_FROM"`
	DateTo      string `env:"SEARCH_DATE_TO"`
	MaxPrice    int    `env:"SEARCH_MAX_PRICE" envDefault:"0"`
}

// ScanConfig holds scan-level settings.
type ScanConfig struct {
	OutputFile  string `env:"SCAN_OUTPUT_FILE" envDefault:"latest-flight-deals.json"`
	RoutesFile  string `env:"SCAN_ROUTES_FILE"`
	Concurrency int    `env:"SCAN_CONCURRENCY" envDefault:"1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Tequila.APIKey == "" {
		cfg.Tequila.APIKey = DefaultAPIKey
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	if cfg.Tequila.BaseURL == "" {
		return fmt.Errorf("TEQUILA_BASE_URL must not be empty")
	}
	if cfg.Tequila.Timeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}

	if len(cfg.Search.Currency) != 3 {
		return fmt.Errorf("SEARCH_CURRENCY must be a 3-letter ISO 4217 code, got %q", cfg.Search.Currency)
	}
	if cfg.Search.NightsFrom < 0 || cfg.Search.NightsTo < cfg.Search.NightsFrom {
		return fmt.Errorf("SEARCH_NIGHTS_FROM (%d) and SEARCH_NIGHTS_TO (%d) must form a non-negative range",
			cfg.Search.NightsFrom, cfg.Search.NightsTo)
	}
	if cfg.Search.ResultLimit < 1 {
		return fmt.Errorf("SEARCH_RESULT_LIMIT must be at least 1")
	}
	if cfg.Search.MaxPrice < 0 {
		return fmt.Errorf("SEARCH_MAX_PRICE must not be negative")
	}
	if err := validateDate("SEARCH_DATE_FROM", cfg.Search.DateFrom); err != nil {
		return err
	}
	if err := validateDate("SEARCH_DATE_TO", cfg.Search.DateTo); err != nil {
		return err
	}

	if cfg.Scan.OutputFile == "" {
		return fmt.Errorf("SCAN_OUTPUT_FILE must not be empty")
	}
	if cfg.Scan.Concurrency < 1 {
		return fmt.Errorf("SCAN_CONCURRENCY must be at least 1, got %d", cfg.Scan.Concurrency)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	return nil
}

func validateDate(name, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, value); err != nil {
		return fmt.Errorf("%s must be in dd/mm/yyyy format, got %q", name, value)
	}
	return nil
}

// HasAPIKey reports whether a credential is available.
func (c *Config) HasAPIKey() bool {
	return c.Tequila.APIKey != ""
}
