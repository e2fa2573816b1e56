// Package spotify talks to the Spotify Web API on behalf of the service
// itself: a client-credentials token cache and the catalog reads built on it.
//
// Tracks are passed through as raw JSON; the only inspection is dropping
// null entries and, for trending, tracks without a preview.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.spotify.com/v1"
	DefaultMarket  = "US"
	DefaultLimit   = 20

	maxLimit        = 50
	maxSeedGenres   = 5
	maxIDsPerLookup = 50
	trendingLimit   = 20
)

// TokenSource yields a bearer token for the next catalog call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	baseURL    string
	market     string
	logger     *slog.Logger
}

// NewClient builds a catalog client. A nil httpClient means http.DefaultClient,
// an empty baseURL or market falls back to the Spotify defaults.
func NewClient(tokens TokenSource, baseURL, market string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if market == "" {
		market = DefaultMarket
	}
	return &Client{
		tokens:     tokens,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		market:     market,
		logger:     logger.With("component", "spotify_client"),
	}
}

// SearchTracks runs a track search and returns the result items verbatim.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	var resp struct {
		Tracks struct {
			Items []domain.Track `json:"items"`
		} `json:"tracks"`
	}
	params := url.Values{
		"q":     {query},
		"type":  {"track"},
		"limit": {strconv.Itoa(clampLimit(limit))},
	}
	if err := c.get(ctx, "search", "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	return dropNull(resp.Tracks.Items), nil
}

// FeaturedTracks returns up to 20 previewable tracks of the first featured
// playlist. It fails with ErrNoFeaturedPlaylist when there is none.
func (c *Client) FeaturedTracks(ctx context.Context) ([]domain.Track, error) {
	var featured struct {
		Playlists struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"playlists"`
	}
	if err := c.get(ctx, "featured_playlists", "/browse/featured-playlists", url.Values{"limit": {"1"}}, &featured); err != nil {
		return nil, fmt.Errorf("featured playlists: %w", err)
	}
	if len(featured.Playlists.Items) == 0 || featured.Playlists.Items[0].ID == "" {
		return nil, ErrNoFeaturedPlaylist
	}

	var page struct {
		Items []struct {
			Track domain.Track `json:"track"`
		} `json:"items"`
	}
	path := "/playlists/" + url.PathEscape(featured.Playlists.Items[0].ID) + "/tracks"
	if err := c.get(ctx, "playlist_tracks", path, url.Values{"limit": {strconv.Itoa(trendingLimit)}}, &page); err != nil {
		return nil, fmt.Errorf("playlist tracks: %w", err)
	}

	tracks := make([]domain.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if hasPreview(item.Track) {
			tracks = append(tracks, item.Track)
		}
	}
	return tracks, nil
}

// Recommendations seeds the recommendations endpoint with at most five
// normalized genres.
func (c *Client) Recommendations(ctx context.Context, genres []string, limit int) ([]domain.Track, error) {
	seeds := NormalizeGenres(genres)
	if len(seeds) > maxSeedGenres {
		seeds = seeds[:maxSeedGenres]
	}

	var resp struct {
		Tracks []domain.Track `json:"tracks"`
	}
	params := url.Values{
		"seed_genres": {strings.Join(seeds, ",")},
		"limit":       {strconv.Itoa(clampLimit(limit))},
		"market":      {c.market},
	}
	if err := c.get(ctx, "recommendations", "/recommendations", params, &resp); err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	return dropNull(resp.Tracks), nil
}

// TracksByIDs looks tracks up in sequential batches of 50, preserving batch
// order and dropping ids Spotify does not know. Any failed batch fails the
// whole lookup.
func (c *Client) TracksByIDs(ctx context.Context, ids []string) ([]domain.Track, error) {
	tracks := []domain.Track{}
	if len(ids) == 0 {
		return tracks, nil
	}

	for chunk := range slices.Chunk(ids, maxIDsPerLookup) {
		var resp struct {
			Tracks []domain.Track `json:"tracks"`
		}
		params := url.Values{"ids": {strings.Join(chunk, ",")}}
		if err := c.get(ctx, "tracks", "/tracks", params, &resp); err != nil {
			return nil, fmt.Errorf("lookup %d tracks: %w", len(chunk), err)
		}
		tracks = append(tracks, dropNull(resp.Tracks)...)
	}
	return tracks, nil
}

// get is the authorized GET every catalog read goes through.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// NormalizeGenres lowercases each genre and turns every run of whitespace or
// punctuation into a single hyphen: "Hip Hop" -> "hip-hop", "R&B" -> "r-b".
// Genres that normalize to nothing are dropped.
func NormalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		var b strings.Builder
		pendingHyphen := false
		for _, r := range strings.ToLower(strings.TrimSpace(g)) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				if pendingHyphen && b.Len() > 0 {
					b.WriteByte('-')
				}
				pendingHyphen = false
				b.WriteRune(r)
				continue
			}
			pendingHyphen = true
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}

var jsonNull = []byte("null")

func isNull(t domain.Track) bool {
	return len(t) == 0 || bytes.Equal(bytes.TrimSpace(t), jsonNull)
}

func dropNull(in []domain.Track) []domain.Track {
	out := make([]domain.Track, 0, len(in))
	for _, t := range in {
		if !isNull(t) {
			out = append(out, t)
		}
	}
	return out
}

func hasPreview(t domain.Track) bool {
	if isNull(t) {
		return false
	}
	var probe struct {
		PreviewURL *string `json:"preview_url"`
	}
	if err := json.Unmarshal(t, &probe); err != nil {
		return false
	}
	return probe.PreviewURL != nil && *probe.PreviewURL != ""
}
