package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/soundproxy/config"
	"github.com/ErlanBelekov/soundproxy/internal/health"
	"github.com/ErlanBelekov/soundproxy/internal/infrastructure/memory"
	"github.com/ErlanBelekov/soundproxy/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/soundproxy/internal/log"
	"github.com/ErlanBelekov/soundproxy/internal/metrics"
	"github.com/ErlanBelekov/soundproxy/internal/oauthstate"
	"github.com/ErlanBelekov/soundproxy/internal/repository"
	"github.com/ErlanBelekov/soundproxy/internal/scheduler"
	"github.com/ErlanBelekov/soundproxy/internal/spotify"
	httptransport "github.com/ErlanBelekov/soundproxy/internal/transport/http"
	"github.com/ErlanBelekov/soundproxy/internal/transport/http/handler"
	"github.com/ErlanBelekov/soundproxy/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Users
	var userRepo repository.UserRepository
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			stop()
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
		userRepo = postgres.NewUserRepository(pool)
		logger.Info("user store", "backend", "postgres")
	} else {
		userRepo = memory.NewUserRepository()
		logger.Info("user store", "backend", "memory")
	}
	userHandler := handler.NewUserHandler(usecase.NewUserUsecase(userRepo), logger)

	// Catalog
	if !cfg.SpotifyConfigured() {
		logger.Warn("spotify credentials not set; catalog endpoints will return empty results")
	}
	tokens, client := newSpotify(cfg, logger)
	catalogHandler := handler.NewCatalogHandler(usecase.NewCatalogUsecase(client, logger), logger)

	// OAuth login
	var loginConfig *oauth2.Config
	if cfg.SpotifyRedirectURL != "" {
		loginConfig = handler.NewLoginConfig(cfg.SpotifyClientID, cfg.SpotifyClientSecret,
			cfg.SpotifyAuthURL, cfg.SpotifyTokenURL, cfg.SpotifyRedirectURL)
	}
	var oauthHandler *handler.OAuthHandler
	if cfg.OAuthStateSecret != "" {
		oauthHandler = handler.NewOAuthHandler(loginConfig, oauthstate.NewSigner([]byte(cfg.OAuthStateSecret)), logger)
	} else {
		oauthHandler = handler.NewOAuthHandler(loginConfig, nil, logger)
	}

	if cfg.TokenWarmupCron != "" {
		warmer, err := scheduler.NewTokenWarmer(tokens, cfg.TokenWarmupCron, logger)
		if err != nil {
			stop()
			log.Fatalf("token warmer: %v", err)
		}
		go warmer.Start(ctx)
	}

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{"user_store": userRepo}, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, catalogHandler, userHandler, oauthHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

// newSpotify builds the token cache and catalog client on one HTTP client, so
// SPOTIFY_HTTP_TIMEOUT bounds token exchanges as well as catalog reads.
func newSpotify(cfg *config.Config, logger *slog.Logger) (*spotify.TokenCache, *spotify.Client) {
	httpClient := &http.Client{Timeout: cfg.SpotifyHTTPTimeout}
	tokens := spotify.NewTokenCache(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyTokenURL, logger,
		spotify.WithTokenHTTPClient(httpClient))
	client := spotify.NewClient(tokens, cfg.SpotifyAPIBaseURL, cfg.SpotifyMarket, httpClient, logger)
	return tokens, client
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
