// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// DatasetConfig provides settings for the zipcode dataset provisioning layer.
type DatasetConfig interface {
	GetDatasetURL() string
	GetDatasetDir() string
	GetDownloadTimeout() time.Duration
}

// RateLimitConfig provides settings for per-client request throttling.
type RateLimitConfig interface {
	IsRateLimitEnabled() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// ExportConfig provides settings for bulk export endpoints.
type ExportConfig interface {
	GetExportWorkers() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	DatasetURL       string
	DatasetDir       string
	DownloadTimeout  time.Duration
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	ExportWorkers    int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// DatasetConfig implementation
func (c *Config) GetDatasetURL() string             { return c.DatasetURL }
func (c *Config) GetDatasetDir() string             { return c.DatasetDir }
func (c *Config) GetDownloadTimeout() time.Duration { return c.DownloadTimeout }

// RateLimitConfig implementation
func (c *Config) IsRateLimitEnabled() bool   { return c.RateLimitEnabled }
func (c *Config) GetRateLimitRPS() float64   { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int     { return c.RateLimitBurst }

// ExportConfig implementation
func (c *Config) GetExportWorkers() int { return c.ExportWorkers }

// DefaultDatasetURL is the official swisstopo zip code directory archive.
const DefaultDatasetURL = "https://data.geo.admin.ch/ch.swisstopo-vd.ortschaftenverzeichnis_plz/PLZO_CSV_LV95.zip"

// fileConfig mirrors the optional YAML configuration file. Every field is
// optional; unset fields fall through to environment variables and defaults.
type fileConfig struct {
	Env              string   `yaml:"env"`
	HTTPAddr         string   `yaml:"http_addr"`
	CORSAllowAll     *bool    `yaml:"cors_allow_all"`
	CORSOrigins      []string `yaml:"cors_origins"`
	CORSAllowCreds   *bool    `yaml:"cors_allow_credentials"`
	DatasetURL       string   `yaml:"dataset_url"`
	DatasetDir       string   `yaml:"dataset_dir"`
	DownloadTimeout  string   `yaml:"download_timeout"`
	RateLimitEnabled *bool    `yaml:"rate_limit_enabled"`
	RateLimitRPS     *float64 `yaml:"rate_limit_rps"`
	RateLimitBurst   *int     `yaml:"rate_limit_burst"`
	ExportWorkers    *int     `yaml:"export_workers"`
}

// Load reads configuration with precedence defaults < config file < environment.
// The config file is optional and pointed at by CONFIG_FILE.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var file fileConfig
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	corsOrigins := splitCSV(pick("CORS_ORIGINS", strings.Join(file.CORSOrigins, ","), "http://localhost:4200"))
	corsAllowAll := pickBool("CORS_ALLOW_ALL", file.CORSAllowAll, false)
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              pick("APP_ENV", file.Env, "development"),
		HTTPAddr:         pick("HTTP_ADDR", file.HTTPAddr, ":8080"),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   pickBool("CORS_ALLOW_CREDENTIALS", file.CORSAllowCreds, false),
		DatasetURL:       pick("DATASET_URL", file.DatasetURL, DefaultDatasetURL),
		DatasetDir:       pick("DATASET_DIR", file.DatasetDir, "data"),
		DownloadTimeout:  mustDuration(pick("DOWNLOAD_TIMEOUT", file.DownloadTimeout, "90s")),
		RateLimitEnabled: pickBool("RATE_LIMIT_ENABLED", file.RateLimitEnabled, true),
		RateLimitRPS:     pickFloat("RATE_LIMIT_RPS", file.RateLimitRPS, 20),
		RateLimitBurst:   pickInt("RATE_LIMIT_BURST", file.RateLimitBurst, 40),
		ExportWorkers:    pickInt("EXPORT_WORKERS", file.ExportWorkers, 8),
	}

	if cfg.DatasetURL == "" {
		return nil, fmt.Errorf("DATASET_URL cannot be empty")
	}
	if cfg.DatasetDir == "" {
		return nil, fmt.Errorf("DATASET_DIR cannot be empty")
	}
	if cfg.DownloadTimeout <= 0 {
		return nil, fmt.Errorf("DOWNLOAD_TIMEOUT must be a positive duration")
	}
	if cfg.RateLimitEnabled && (cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1) {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if cfg.ExportWorkers < 1 {
		return nil, fmt.Errorf("EXPORT_WORKERS must be at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// pick resolves a string setting: environment wins over the config file,
// the config file wins over the built-in default.
func pick(envKey, fileVal, fallback string) string {
	if val, ok := os.LookupEnv(envKey); ok {
		return val
	}
	if fileVal != "" {
		return fileVal
	}
	return fallback
}

func pickBool(envKey string, fileVal *bool, fallback bool) bool {
	if val, ok := os.LookupEnv(envKey); ok {
		return strings.EqualFold(val, "true")
	}
	if fileVal != nil {
		return *fileVal
	}
	return fallback
}

func pickInt(envKey string, fileVal *int, fallback int) int {
	if val, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		return 0
	}
	if fileVal != nil {
		return *fileVal
	}
	return fallback
}

func pickFloat(envKey string, fileVal *float64, fallback float64) float64 {
	if val, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
		return 0
	}
	if fileVal != nil {
		return *fileVal
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
