package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/metrics"
	"github.com/ErlanBelekov/soundproxy/internal/spotify"
)

const (
	trendingFallbackQuery = "top hits 2024"
	trendingFallbackLimit = 20
)

// catalogClient is satisfied by *spotify.Client.
type catalogClient interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error)
	FeaturedTracks(ctx context.Context) ([]domain.Track, error)
	Recommendations(ctx context.Context, genres []string, limit int) ([]domain.Track, error)
	TracksByIDs(ctx context.Context, ids []string) ([]domain.Track, error)
}

// CatalogUsecase turns the fallible catalog reads into reads that always
// succeed: a failed read is logged, counted, and answered with a fallback
// or an empty list. Callers never see the error.
type CatalogUsecase struct {
	client catalogClient
	logger *slog.Logger
}

func NewCatalogUsecase(client catalogClient, logger *slog.Logger) *CatalogUsecase {
	return &CatalogUsecase{client: client, logger: logger.With("component", "catalog")}
}

func (u *CatalogUsecase) Search(ctx context.Context, query string, limit int) []domain.Track {
	tracks, err := u.client.SearchTracks(ctx, query, limit)
	if err != nil {
		return u.empty(ctx, "search", err)
	}
	return tracks
}

// Trending falls back to a search when Spotify has no featured playlist.
func (u *CatalogUsecase) Trending(ctx context.Context) []domain.Track {
	tracks, err := u.client.FeaturedTracks(ctx)
	switch {
	case errors.Is(err, spotify.ErrNoFeaturedPlaylist):
		u.logger.InfoContext(ctx, "no featured playlist, searching instead", "query", trendingFallbackQuery)
		return u.Search(ctx, trendingFallbackQuery, trendingFallbackLimit)
	case err != nil:
		return u.empty(ctx, "trending", err)
	}
	return tracks
}

// Recommendations falls back to searching the raw genre names when the
// recommendations endpoint fails.
func (u *CatalogUsecase) Recommendations(ctx context.Context, genres []string, limit int) []domain.Track {
	tracks, err := u.client.Recommendations(ctx, genres, limit)
	if err != nil {
		u.record(ctx, "recommendations", err)
		return u.Search(ctx, strings.Join(genres, " "), limit)
	}
	return tracks
}

// TracksByIDs discards partial results when any batch fails.
func (u *CatalogUsecase) TracksByIDs(ctx context.Context, ids []string) []domain.Track {
	tracks, err := u.client.TracksByIDs(ctx, ids)
	if err != nil {
		return u.empty(ctx, "tracks", err)
	}
	return tracks
}

func (u *CatalogUsecase) empty(ctx context.Context, op string, err error) []domain.Track {
	u.record(ctx, op, err)
	return []domain.Track{}
}

func (u *CatalogUsecase) record(ctx context.Context, op string, err error) {
	metrics.CatalogFallbacksTotal.WithLabelValues(op).Inc()

	attrs := []any{"operation", op, "error", err}
	var apiErr *spotify.APIError
	var exErr *spotify.ExchangeError
	switch {
	case errors.As(err, &apiErr):
		attrs = append(attrs, "upstream_status", apiErr.StatusCode)
	case errors.As(err, &exErr):
		attrs = append(attrs, "token_status", exErr.StatusCode)
	}
	u.logger.WarnContext(ctx, "catalog read failed", attrs...)
}
