// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings.
type Config struct {
	Server    ServerConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	GitHub    GitHubConfig
	Logging   LoggingConfig
}

// ServerConfig configures the listener and request handling.
type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
	CORSOrigins    string
}

// HTTPConfig configures outbound live lookups.
type HTTPConfig struct {
	Timeout time.Duration
}

// RateLimitConfig caps requests per client address.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// GitHubConfig holds the optional API token.
type GitHubConfig struct {
	Token string
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level slog.Level
}

// Load reads an optional .env file, then the environment.
// A variable that is set but malformed is an error naming the variable.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a variable lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Server: ServerConfig{
			Port:           p.int("PORT", 3001),
			RequestTimeout: p.duration("REQUEST_TIMEOUT", 20*time.Second),
			CORSOrigins:    p.string("CORS_ORIGINS", "*"),
		},
		HTTP: HTTPConfig{
			Timeout: p.duration("HTTP_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Max:    p.int("RATE_LIMIT_MAX", 100),
			Window: p.duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		GitHub: GitHubConfig{
			Token: p.string("GITHUB_TOKEN", ""),
		},
		Logging: LoggingConfig{
			Level: p.level("LOG_LEVEL", slog.LevelInfo),
		},
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimit.Max < 1 {
		return errors.New("RATE_LIMIT_MAX must be at least 1")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) string(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return d
}

func (p *parser) level(key string, def slog.Level) slog.Level {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return def
	}
	return lvl
}
