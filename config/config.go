package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// Missing credentials are not fatal at startup: catalog reads degrade to
	// empty results until they are provided.
	SpotifyClientID     string        `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string        `env:"SPOTIFY_CLIENT_SECRET"`
	SpotifyTokenURL     string        `env:"SPOTIFY_TOKEN_URL"    envDefault:"https://accounts.spotify.com/api/token" validate:"required,url"`
	SpotifyAuthURL      string        `env:"SPOTIFY_AUTH_URL"     envDefault:"https://accounts.spotify.com/authorize" validate:"required,url"`
	SpotifyAPIBaseURL   string        `env:"SPOTIFY_API_BASE_URL" envDefault:"https://api.spotify.com/v1"             validate:"required,url"`
	SpotifyRedirectURL  string        `env:"SPOTIFY_REDIRECT_URL"                                                      validate:"omitempty,url"`
	SpotifyMarket       string        `env:"SPOTIFY_MARKET"       envDefault:"US"                                      validate:"len=2"`
	SpotifyHTTPTimeout  time.Duration `env:"SPOTIFY_HTTP_TIMEOUT" envDefault:"0s"`

	DatabaseURL      string `env:"DATABASE_URL"`
	OAuthStateSecret string `env:"OAUTH_STATE_SECRET" validate:"omitempty,min=32"`
	TokenWarmupCron  string `env:"TOKEN_WARMUP_CRON"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SpotifyConfigured reports whether both client credentials are present.
func (c *Config) SpotifyConfigured() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}
