package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/soundproxy/internal/requestid"
	"github.com/ErlanBelekov/soundproxy/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---- CORS ----

func TestCORS_Preflight_ShortCircuits(t *testing.T) {
	reached := false
	r := gin.New()
	r.Use(middleware.CORS())
	r.OPTIONS("/x", func(c *gin.Context) { reached = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))

	if reached {
		t.Error("preflight should not reach the handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORS_Get_PassesThroughWithHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusTeapot, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Max-Age = %q", got)
	}
}

// ---- RequestID ----

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { fromCtx = requestid.FromContext(c.Request.Context()) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	header := w.Header().Get(requestid.Header)
	if err := uuid.Validate(header); err != nil {
		t.Fatalf("header %q is not a uuid: %v", header, err)
	}
	if fromCtx != header {
		t.Errorf("context id %q != header id %q", fromCtx, header)
	}
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	const incoming = "5f1c8a8e-3b7a-4d0e-8f55-0c1d2e3f4a5b"
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(*gin.Context) {})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestid.Header, incoming)
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestid.Header); got != incoming {
		t.Errorf("header = %q, want %q", got, incoming)
	}
}

// ---- Recovery ----

func TestRecovery_LogsAndReturns500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.GET("/x", func(*gin.Context) { panic("secret detail") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if w.Body.String() != `{"message":"Internal server error"}` {
		t.Errorf("body = %s", w.Body.String())
	}
	if !strings.Contains(buf.String(), "secret detail") {
		t.Errorf("panic value not logged: %s", buf.String())
	}
}
