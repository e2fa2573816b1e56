package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/gin-gonic/gin"
)

// catalogUsecaser is the subset of CatalogUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type catalogUsecaser interface {
	Search(ctx context.Context, query string, limit int) []domain.Track
	Trending(ctx context.Context) []domain.Track
	Recommendations(ctx context.Context, genres []string, limit int) []domain.Track
	TracksByIDs(ctx context.Context, ids []string) []domain.Track
}

type CatalogHandler struct {
	catalog catalogUsecaser
	logger  *slog.Logger
}

func NewCatalogHandler(catalog catalogUsecaser, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger.With("component", "catalog_handler")}
}

// GET /api/spotify/search?q=<query>&limit=<n>
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		fail(c, http.StatusBadRequest, errQueryRequired)
		return
	}

	tracks := h.catalog.Search(c.Request.Context(), query, queryLimit(c))
	c.JSON(http.StatusOK, gin.H{"tracks": gin.H{"items": tracks}})
}

// GET /api/spotify/trending
func (h *CatalogHandler) Trending(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Trending(c.Request.Context()))
}

// GET /api/spotify/recommendations?seed_genres=<a,b>&limit=<n>
func (h *CatalogHandler) Recommendations(c *gin.Context) {
	raw := c.Query("seed_genres")
	if raw == "" {
		fail(c, http.StatusBadRequest, errGenresRequired)
		return
	}

	tracks := h.catalog.Recommendations(c.Request.Context(), splitList(raw), queryLimit(c))
	c.JSON(http.StatusOK, tracks)
}

// GET /api/spotify/tracks?ids=<id1,id2>
func (h *CatalogHandler) Tracks(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		fail(c, http.StatusBadRequest, errIDsRequired)
		return
	}

	ids := splitList(raw)
	if len(ids) == 0 {
		c.JSON(http.StatusOK, gin.H{"tracks": []domain.Track{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracks": h.catalog.TracksByIDs(c.Request.Context(), ids)})
}

// splitList splits a comma list, trimming entries and dropping empty ones.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// queryLimit reads ?limit=, returning 0 (the client default) when absent or invalid.
func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
