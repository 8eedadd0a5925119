package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Error mapping modes
const (
	ErrorModeSanitized = "sanitized"
	ErrorModeLegacy    = "legacy"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port      string `env:"PORT"       envDefault:"8080"    json:"port"`
	Host      string `env:"HOST"       envDefault:"0.0.0.0" json:"host"`
	StaticDir string `env:"STATIC_DIR" envDefault:"."       json:"static_dir"`
	ErrorMode string `env:"ERROR_MODE" envDefault:"legacy"  json:"error_mode"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"    json:"log_level"`

	// Gemini API settings
	GeminiAPIKey           string        `env:"GEMINI_API_KEY"           json:"-"` // Don't expose in JSON
	GeminiModel            string        `env:"GEMINI_MODEL"             json:"gemini_model"`
	GeminiGenerationMethod string        `env:"GEMINI_GENERATION_METHOD" envDefault:"generateContent" json:"gemini_generation_method"`
	GeminiBaseURL          string        `env:"GEMINI_BASE_URL"          envDefault:"https://generativelanguage.googleapis.com/v1beta" json:"gemini_base_url"`
	GeminiTimeout          time.Duration `env:"GEMINI_TIMEOUT"           envDefault:"60s" json:"gemini_timeout"`

	// Scraper settings
	Scrape ScrapeConfig `json:"scrape"`
}

// ScrapeConfig holds settings for fetching pages and extracting reviews
type ScrapeConfig struct {
	Timeout             time.Duration `env:"SCRAPE_TIMEOUT"              envDefault:"30s"     json:"timeout"`
	MaxBodyBytes        int64         `env:"SCRAPE_MAX_BODY_BYTES"       envDefault:"5242880" json:"max_body_bytes"`
	MaxReviews          int           `env:"SCRAPE_MAX_REVIEWS"          envDefault:"50"      json:"max_reviews"`
	MinReviewLength     int           `env:"SCRAPE_MIN_REVIEW_LENGTH"    envDefault:"10"      json:"min_review_length"`
	Selectors           []string      `env:"SCRAPE_SELECTORS"            envSeparator:","     json:"selectors"`
	ReadabilityFallback bool          `env:"SCRAPE_READABILITY_FALLBACK" envDefault:"true"    json:"readability_fallback"`
	HostInterval        time.Duration `env:"SCRAPE_HOST_INTERVAL"        envDefault:"1s"      json:"host_interval"`
	UserAgent           string        `env:"SCRAPE_USER_AGENT"           json:"user_agent"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	var config Config
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	config.ErrorMode = strings.ToLower(strings.TrimSpace(config.ErrorMode))
	config.Scrape.Selectors = trimSlice(config.Scrape.Selectors)

	return &config, config.validate()
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Legacy reports whether upstream errors are returned verbatim as HTTP 500
func (c *Config) Legacy() bool {
	return c.ErrorMode == ErrorModeLegacy
}

// SlogLevel converts LogLevel into a slog.Level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
	}
	if c.ErrorMode != ErrorModeSanitized && c.ErrorMode != ErrorModeLegacy {
		return &ConfigError{Field: "ERROR_MODE", Message: "must be sanitized or legacy"}
	}
	if c.GeminiGenerationMethod == "" {
		return &ConfigError{Field: "GEMINI_GENERATION_METHOD", Message: "must not be empty"}
	}
	if c.Scrape.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "SCRAPE_MAX_BODY_BYTES", Message: "must be positive"}
	}
	if c.Scrape.MaxReviews <= 0 {
		return &ConfigError{Field: "SCRAPE_MAX_REVIEWS", Message: "must be positive"}
	}
	return nil
}

// trimSlice drops blank entries and surrounding whitespace
func trimSlice(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
