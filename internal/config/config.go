// Package config loads the calendar service configuration from the
// environment, reading a .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/zapponejosh/persiancal/internal/calendar"
	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port            int
	Env             string        // development, staging, production
	ShutdownTimeout time.Duration // grace period for in-flight requests

	// New-year cache
	DatabasePath string

	// Admin routes
	APIKey string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Calendar
	Locale    string // iran, tehran, or lat,long[,elevation,zone]
	Algorithm string // astronomical, arithmetic

	// Per client IP; zero RPS disables limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var (
	environments = []string{EnvDevelopment, EnvStaging, EnvProduction}
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"json", "text"}
)

// Load reads the configuration from the environment and validates it.
// Malformed numbers and durations are reported alongside validation
// failures.
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Port:            env.getInt("PORT", 8080),
		Env:             env.getString("ENV", EnvDevelopment),
		ShutdownTimeout: env.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabasePath:    env.getString("DATABASE_PATH", "./data/persiancal.db"),
		APIKey:          env.getString("API_KEY", ""),
		LogLevel:        env.getString("LOG_LEVEL", "info"),
		LogFormat:       env.getString("LOG_FORMAT", "text"),
		Locale:          env.getString("PERSIAN_LOCALE", "iran"),
		Algorithm:       env.getString("PERSIAN_ALGORITHM", persian.NameAstronomical),
		RateLimitRPS:    env.getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  env.getInt("RATE_LIMIT_BURST", 40),
	}

	if err := errors.Join(env.err(), cfg.Validate()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all settings are present and in range.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Port >= 1 && c.Port <= 65535, "PORT must be between 1 and 65535, got %d", c.Port)
	check(slices.Contains(environments, c.Env), "ENV must be one of %v; got %q", environments, c.Env)
	check(c.ShutdownTimeout >= 0, "SHUTDOWN_TIMEOUT must not be negative, got %v", c.ShutdownTimeout)
	check(c.DatabasePath != "", "DATABASE_PATH is required")
	check(c.Env != EnvProduction || c.APIKey != "", "API_KEY is required in production")
	check(slices.Contains(logLevels, c.LogLevel), "LOG_LEVEL must be one of %v; got %q", logLevels, c.LogLevel)
	check(slices.Contains(logFormats, c.LogFormat), "LOG_FORMAT must be one of %v; got %q", logFormats, c.LogFormat)

	if _, err := calendar.ParseLocale(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("PERSIAN_LOCALE: %w", err))
	}
	if _, err := persian.New(c.Algorithm, calendrica.Iran); err != nil {
		errs = append(errs, fmt.Errorf("PERSIAN_ALGORITHM: %w", err))
	}

	check(c.RateLimitRPS >= 0, "RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	check(c.RateLimitRPS == 0 || c.RateLimitBurst >= 1, "RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)

	return errors.Join(errs...)
}

// Location returns the parsed PERSIAN_LOCALE. Call Validate first;
// an unparseable locale falls back to calendrica.Iran.
func (c *Config) Location() calendrica.Location {
	loc, err := calendar.ParseLocale(c.Locale)
	if err != nil {
		return calendrica.Iran
	}
	return loc
}

// PersianAlgorithm builds the configured Persian calendar strategy at the
// configured locale.
func (c *Config) PersianAlgorithm() (persian.Algorithm, error) {
	return persian.New(c.Algorithm, c.Location())
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// envReader reads typed environment variables, remembering every value
// that failed to parse.
type envReader struct {
	errs []error
}

func (r *envReader) getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (r *envReader) getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return def
	}
	return n
}

func (r *envReader) getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a number, got %q", key, v))
		return def
	}
	return f
}

// getDuration accepts Go durations ("500ms", "1m") or whole seconds ("10").
func (r *envReader) getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a duration, got %q", key, v))
		return def
	}
	return d
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
