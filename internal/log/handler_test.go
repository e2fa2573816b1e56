package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	ctxlog "github.com/ErlanBelekov/soundproxy/internal/log"
	"github.com/ErlanBelekov/soundproxy/internal/requestid"
)

func newLogger(buf *bytes.Buffer, extractors ...ctxlog.Extractor) *slog.Logger {
	return slog.New(ctxlog.NewContextHandler(slog.NewJSONHandler(buf, nil), extractors...))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return rec
}

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ctx := requestid.WithRequestID(context.Background(), "req-1")

	newLogger(&buf).With("component", "test").InfoContext(ctx, "hello")

	rec := decode(t, &buf)
	if rec["request_id"] != "req-1" {
		t.Errorf("request_id: want req-1, got %v", rec["request_id"])
	}
	if rec["component"] != "test" {
		t.Errorf("component attr lost through WithAttrs: %v", rec)
	}
}

func TestContextHandler_NoRequestID_OmitsAttr(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf).InfoContext(context.Background(), "hello")

	if _, ok := decode(t, &buf)["request_id"]; ok {
		t.Error("request_id should be absent when the context has none")
	}
}

func TestContextHandler_CustomExtractor(t *testing.T) {
	var buf bytes.Buffer
	tenant := func(context.Context) (slog.Attr, bool) { return slog.String("tenant", "acme"), true }

	newLogger(&buf, tenant).WithGroup("g").InfoContext(context.Background(), "hello", "k", "v")

	rec := decode(t, &buf)
	group, ok := rec["g"].(map[string]any)
	if !ok {
		t.Fatalf("group g missing: %v", rec)
	}
	if group["tenant"] != "acme" || group["k"] != "v" {
		t.Errorf("unexpected group contents: %v", group)
	}
}
