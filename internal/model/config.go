package model

import (
	"time"

	"github.com/ppiankov/vitalstats/internal/source"
)

// Config holds all vitalstats settings.
// Field tags serve both yaml.v3 (config init/show) and viper's decoder.
type Config struct {
	HTTP         HTTPConfig      `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Robots       RobotsConfig    `yaml:"robots" mapstructure:"robots"`
	Source       SourceConfig    `yaml:"source" mapstructure:"source"`
	Prompt       PromptConfig    `yaml:"prompt" mapstructure:"prompt"`
	Output       OutputConfig    `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig configures spreadsheet downloads
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// RateLimitConfig limits requests per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// RobotsConfig controls robots.txt compliance
type RobotsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// SourceConfig locates the ministry's files
type SourceConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`       // Root of the monthly prompt archive
	CatalogURL string `yaml:"catalog_url" mapstructure:"catalog_url"` // Listing page with links to every file
}

// PromptConfig holds defaults for the range aggregation
type PromptConfig struct {
	YearFrom     int    `yaml:"year_from" mapstructure:"year_from"`
	MonthsOffset int    `yaml:"months_offset" mapstructure:"months_offset"` // Publication lag, months part
	DaysOffset   int    `yaml:"days_offset" mapstructure:"days_offset"`     // Publication lag, days part
	Lang         string `yaml:"lang" mapstructure:"lang"`
	IgnoreError  bool   `yaml:"ignore_error" mapstructure:"ignore_error"`
}

// OutputConfig controls table rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // csv, json, yaml, markdown, pretty
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			UserAgent:    "vitalstats/0.1 (+https://github.com/ppiankov/vitalstats)",
			MaxBodyBytes: 10_000_000,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         1,
		},
		Robots: RobotsConfig{
			Enabled:  true,
			CacheTTL: time.Hour,
		},
		Source: SourceConfig{
			BaseURL:    source.DefaultBaseURL,
			CatalogURL: source.DefaultCatalogURL,
		},
		Prompt: PromptConfig{
			YearFrom:     2005,
			MonthsOffset: 2,
			DaysOffset:   23,
			Lang:         string(LangEnglish),
		},
		Output: OutputConfig{
			Format: "csv",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
