package handler_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/ErlanBelekov/soundproxy/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

// fakeStates implements the unexported stateSigner interface via method matching.
type fakeStates struct {
	issue  func() (string, error)
	verify func(state string) error
}

func (f *fakeStates) Issue() (string, error)     { return f.issue() }
func (f *fakeStates) Verify(state string) error { return f.verify(state) }

func newOAuthEngine(h *handler.OAuthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/api/spotify/login", h.Login)
	r.GET("/callback", h.Callback)
	return r
}

func assertRedirect(t *testing.T, r *gin.Engine, target, want string) {
	t.Helper()
	w := get(r, target)
	if w.Code != http.StatusFound {
		t.Fatalf("%s: status = %d, want 302", target, w.Code)
	}
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("%s: Location = %q, want %q", target, got, want)
	}
}

// ---- Login ----

func TestLogin_NotConfigured_Returns500(t *testing.T) {
	h := handler.NewOAuthHandler(nil, nil, testLogger())

	w := get(newOAuthEngine(h), "/api/spotify/login")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestLogin_RedirectsToAuthorizeURL(t *testing.T) {
	cfg := handler.NewLoginConfig("client-id", "secret",
		"https://accounts.example.com/authorize", "https://accounts.example.com/api/token",
		"http://localhost:8080/callback")
	states := &fakeStates{issue: func() (string, error) { return "signed-state", nil }}
	h := handler.NewOAuthHandler(cfg, states, testLogger())

	w := get(newOAuthEngine(h), "/api/spotify/login")

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	if loc.Host != "accounts.example.com" || loc.Path != "/authorize" {
		t.Errorf("Location = %s", loc)
	}
	q := loc.Query()
	checks := map[string]string{
		"client_id":     "client-id",
		"response_type": "code",
		"redirect_uri":  "http://localhost:8080/callback",
		"state":         "signed-state",
		"scope":         "user-read-private user-read-email user-library-read",
	}
	for k, want := range checks {
		if got := q.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestLogin_StateIssueFails_Returns500(t *testing.T) {
	cfg := handler.NewLoginConfig("id", "secret", "https://a.example.com/authorize", "https://a.example.com/token", "http://localhost/callback")
	states := &fakeStates{issue: func() (string, error) { return "", errors.New("boom") }}

	w := get(newOAuthEngine(handler.NewOAuthHandler(cfg, states, testLogger())), "/api/spotify/login")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---- Callback ----

func TestCallback_WithoutSigner(t *testing.T) {
	r := newOAuthEngine(handler.NewOAuthHandler(nil, nil, testLogger()))

	assertRedirect(t, r, "/callback?error=access_denied", "/?error=access_denied")
	assertRedirect(t, r, "/callback?error=a+b%26c", "/?error=a+b%26c")
	assertRedirect(t, r, "/callback", "/")
	assertRedirect(t, r, "/callback?code=abc", "/?connected=true")
}

func TestCallback_WithSigner_ChecksState(t *testing.T) {
	states := &fakeStates{verify: func(state string) error {
		if state != "good" {
			return errors.New("bad state")
		}
		return nil
	}}
	r := newOAuthEngine(handler.NewOAuthHandler(nil, states, testLogger()))

	assertRedirect(t, r, "/callback?code=abc&state=good", "/?connected=true")
	assertRedirect(t, r, "/callback?code=abc&state=forged", "/?error=invalid_state")
	assertRedirect(t, r, "/callback?code=abc", "/?error=invalid_state")
}
