package spotify

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned before any network call when the
	// client id or secret was never configured.
	ErrMissingCredentials = errors.New("spotify client credentials are not configured")

	// ErrNoFeaturedPlaylist means the featured-playlists listing was empty.
	ErrNoFeaturedPlaylist = errors.New("no featured playlist available")
)

// ExchangeError is a non-success response from the token endpoint.
type ExchangeError struct {
	StatusCode int
	Status     string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: %d %s", e.StatusCode, e.Status)
}

// APIError is a non-success response from the catalog API.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: %d %s", e.StatusCode, e.Status)
}
