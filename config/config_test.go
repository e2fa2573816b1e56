package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/soundproxy/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("ports = %s/%s", cfg.Port, cfg.MetricsPort)
	}
	if cfg.SpotifyMarket != "US" {
		t.Errorf("market = %q", cfg.SpotifyMarket)
	}
	if cfg.SpotifyHTTPTimeout != 0 {
		t.Errorf("timeout = %v, want none", cfg.SpotifyHTTPTimeout)
	}
	if cfg.SpotifyConfigured() {
		t.Error("credentials should not be configured by default")
	}
}

func TestLoad_ReadsEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("SPOTIFY_HTTP_TIMEOUT", "5s")
	t.Setenv("SPOTIFY_MARKET", "GB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.SpotifyConfigured() {
		t.Error("credentials should be configured")
	}
	if cfg.SpotifyHTTPTimeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.SpotifyHTTPTimeout)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.SlogLevel())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad env":          {"ENV", "dev"},
		"bad log level":    {"LOG_LEVEL", "verbose"},
		"bad market":       {"SPOTIFY_MARKET", "USA"},
		"bad redirect":     {"SPOTIFY_REDIRECT_URL", "not a url"},
		"short secret":     {"OAUTH_STATE_SECRET", "too-short"},
		"unparseable time": {"SPOTIFY_HTTP_TIMEOUT", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := config.Load(); err == nil {
				t.Errorf("%s=%q: want error", kv[0], kv[1])
			}
		})
	}
}
