package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

var loginScopes = []string{"user-read-private", "user-read-email", "user-library-read"}

type stateSigner interface {
	Issue() (string, error)
	Verify(state string) error
}

// OAuthHandler drives the user-facing authorization-code redirect. The
// callback only reports the outcome to the frontend; it does not exchange
// the code.
type OAuthHandler struct {
	config *oauth2.Config
	states stateSigner
	logger *slog.Logger
}

// NewOAuthHandler accepts a nil config (login disabled) and a nil signer
// (state is not checked on callback).
func NewOAuthHandler(config *oauth2.Config, states stateSigner, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{config: config, states: states, logger: logger.With("component", "oauth_handler")}
}

// NewLoginConfig builds the authorization-code config for Spotify login.
func NewLoginConfig(clientID, clientSecret, authURL, tokenURL, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       loginScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// GET /api/spotify/login
func (h *OAuthHandler) Login(c *gin.Context) {
	if h.config == nil || h.config.RedirectURL == "" {
		fail(c, http.StatusInternalServerError, errLoginDisabled)
		return
	}

	var state string
	if h.states != nil {
		var err error
		if state, err = h.states.Issue(); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "issue oauth state", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
			return
		}
	}

	c.Redirect(http.StatusFound, h.config.AuthCodeURL(state))
}

// GET /callback?code=<code>&state=<state> or ?error=<reason>
func (h *OAuthHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		h.logger.WarnContext(c.Request.Context(), "spotify authorization denied", "reason", reason)
		c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(reason))
		return
	}

	if c.Query("code") == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if h.states != nil {
		if err := h.states.Verify(c.Query("state")); err != nil {
			h.logger.WarnContext(c.Request.Context(), "rejected oauth callback", "error", err)
			c.Redirect(http.StatusFound, "/?error=invalid_state")
			return
		}
	}

	c.Redirect(http.StatusFound, "/?connected=true")
}
