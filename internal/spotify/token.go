package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/soundproxy/internal/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// expirySafetyMargin is subtracted from the provider TTL so a token is
	// never presented in the last minute of its life.
	expirySafetyMargin = 60 * time.Second
)

// TokenCache holds one client-credentials bearer token and refreshes it
// lazily once it expires.
type TokenCache struct {
	cfg        clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger

	mu        sync.Mutex
	value     string
	expiresAt time.Time
}

type TokenCacheOption func(*TokenCache)

// WithTokenHTTPClient sets the client used for the exchange.
func WithTokenHTTPClient(c *http.Client) TokenCacheOption {
	return func(tc *TokenCache) { tc.httpClient = c }
}

// WithClock replaces time.Now for expiry bookkeeping.
func WithClock(now func() time.Time) TokenCacheOption {
	return func(tc *TokenCache) { tc.now = now }
}

func NewTokenCache(clientID, clientSecret, tokenURL string, logger *slog.Logger, opts ...TokenCacheOption) *TokenCache {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	tc := &TokenCache{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: http.DefaultClient,
		now:        time.Now,
		logger:     logger.With("component", "token_cache"),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// Token returns the cached token while now < expiresAt, otherwise performs
// exactly one exchange. A failed exchange leaves the cache untouched and
// never falls back to a stale token.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.value != "" && c.now().Before(c.expiresAt) {
		value := c.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", ErrMissingCredentials
	}

	issuedAt := c.now()
	tok, err := c.cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	if err != nil {
		metrics.TokenExchangesTotal.WithLabelValues("error").Inc()
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.Response != nil {
			return "", &ExchangeError{
				StatusCode: rErr.Response.StatusCode,
				Status:     statusText(rErr.Response),
			}
		}
		return "", fmt.Errorf("token exchange: %w", err)
	}
	metrics.TokenExchangesTotal.WithLabelValues("success").Inc()

	// Without expires_in the token is not reused unless the library
	// derived an expiry some other way.
	expiresAt := tok.Expiry.Add(-expirySafetyMargin)
	if ttl, ok := expiresIn(tok); ok {
		expiresAt = issuedAt.Add(ttl - expirySafetyMargin)
	}

	c.mu.Lock()
	c.value = tok.AccessToken
	c.expiresAt = expiresAt
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "access token refreshed", "expires_at", expiresAt)
	return tok.AccessToken, nil
}

// expiresIn reads the provider TTL from the raw response; clientcredentials
// does not carry ExpiresIn on the token it returns.
func expiresIn(tok *oauth2.Token) (time.Duration, bool) {
	var secs float64
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		secs = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		secs = f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		secs = f
	default:
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

// ExpiresAt reports the expiry of the cached token; zero when none is cached.
func (c *TokenCache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

// statusText strips the numeric code from resp.Status ("401 Unauthorized").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
