// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback), optionally seeded from a .env file
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv()
//	mode := cfg.Matching.Mode
//	port := cfg.Server.Port
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Matching modes
const (
	ModeExact = "exact"
	ModeTDS   = "tds"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Selection     SelectionConfig     `yaml:"selection"`
	Records       RecordsConfig       `yaml:"records"`
	Report        ReportConfig        `yaml:"report"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig selects the matching rule
type MatchingConfig struct {
	Mode         string    `yaml:"mode"` // "exact" or "tds"
	TDSRates     []float64 `yaml:"tds_rates"`
	TDSTolerance float64   `yaml:"tds_tolerance"`
}

// SelectionConfig controls the pre-match filters
type SelectionConfig struct {
	OverdueOnly bool `yaml:"overdue_only"`
	UnusedOnly  bool `yaml:"unused_only"`
}

// RecordsConfig holds the source field labels for JSON records
type RecordsConfig struct {
	InvoiceIDField    string `yaml:"invoice_id_field"`
	BalanceDueField   string `yaml:"balance_due_field"`
	StatusField       string `yaml:"status_field"`
	PaymentIDField    string `yaml:"payment_id_field"`
	UnusedAmountField string `yaml:"unused_amount_field"`
	PaidAmountField   string `yaml:"paid_amount_field"`
}

// ReportConfig holds report formatting settings
type ReportConfig struct {
	Locale   string `yaml:"locale"`   // BCP 47 tag, e.g. "en-US", "en-IN"
	Currency string `yaml:"currency"` // ISO 4217 code shown next to amounts
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			Mode:         ModeExact,
			TDSRates:     []float64{0.01, 0.02, 0.03, 0.055, 0.10, 0.15},
			TDSTolerance: 1,
		},
		Selection: SelectionConfig{
			OverdueOnly: true,
			UnusedOnly:  true,
		},
		Records: RecordsConfig{
			InvoiceIDField:    "Invoice ID",
			BalanceDueField:   "Balance Due",
			StatusField:       "Status",
			PaymentIDField:    "Payment ID",
			UnusedAmountField: "Unused Amount",
			PaidAmountField:   "Paid Amount",
		},
		Report: ReportConfig{
			Locale:   "en-US",
			Currency: "USD",
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${MATCH_MODE})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
// A .env file in the working directory is read first if present.
func LoadFromEnv() *Config {
	_ = godotenv.Load()

	cfg := Default()
	cfg.Matching.Mode = getEnv("MATCH_MODE", cfg.Matching.Mode)
	cfg.Matching.TDSTolerance = getEnvFloat("MATCH_TDS_TOLERANCE", cfg.Matching.TDSTolerance)
	cfg.Selection.OverdueOnly = getEnvBool("SELECT_OVERDUE_ONLY", cfg.Selection.OverdueOnly)
	cfg.Selection.UnusedOnly = getEnvBool("SELECT_UNUSED_ONLY", cfg.Selection.UnusedOnly)
	cfg.Report.Locale = getEnv("REPORT_LOCALE", cfg.Report.Locale)
	cfg.Report.Currency = getEnv("REPORT_CURRENCY", cfg.Report.Currency)
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() (*Config, error) {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath loads the file at path. Only a missing file falls back to
// environment variables; a file that exists but fails to parse or validate
// is an error.
func LoadOrEnvWithPath(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return LoadFromEnv(), nil
	}
	return nil, err
}

// Validate rejects settings the matcher cannot run with
func (c *Config) Validate() error {
	switch c.Matching.Mode {
	case ModeExact, ModeTDS:
	default:
		return fmt.Errorf("unknown matching mode %q (want %q or %q)", c.Matching.Mode, ModeExact, ModeTDS)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.Atoi(val); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseFloat(val, 64); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseBool(val); err == nil {
			return result
		}
	}
	return fallback
}
