package requestid_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/soundproxy/internal/requestid"
	"github.com/google/uuid"
)

func TestResolve_KeepsValidUUID(t *testing.T) {
	in := "0b8f5a0e-6d0a-4f6b-9a57-2a0c1f9d3e11"
	if got := requestid.Resolve(in); got != in {
		t.Errorf("want %q, got %q", in, got)
	}
}

func TestResolve_ReplacesMissingOrMalformed(t *testing.T) {
	for _, in := range []string{"", "hello", "<script>"} {
		got := requestid.Resolve(in)
		if got == in {
			t.Errorf("Resolve(%q) kept the input", in)
		}
		if err := uuid.Validate(got); err != nil {
			t.Errorf("Resolve(%q) = %q, not a uuid: %v", in, got, err)
		}
	}
}

func TestFromContext(t *testing.T) {
	if got := requestid.FromContext(context.Background()); got != "" {
		t.Errorf("empty context: want \"\", got %q", got)
	}
	ctx := requestid.WithRequestID(context.Background(), "abc")
	if got := requestid.FromContext(ctx); got != "abc" {
		t.Errorf("want abc, got %q", got)
	}
}
