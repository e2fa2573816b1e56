package oauthstate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/soundproxy/internal/oauthstate"
)

const testKey = "oauthstate-test-secret-32-chars!!"

func TestIssueThenVerify_Succeeds(t *testing.T) {
	s := oauthstate.NewSigner([]byte(testKey))

	state, err := s.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := s.Verify(state); err != nil {
		t.Errorf("verify own state: %v", err)
	}
}

func TestVerify_Empty_ReturnsErrInvalidState(t *testing.T) {
	if err := oauthstate.NewSigner([]byte(testKey)).Verify(""); !errors.Is(err, oauthstate.ErrInvalidState) {
		t.Errorf("want ErrInvalidState, got %v", err)
	}
}

func TestVerify_Garbage_ReturnsErrInvalidState(t *testing.T) {
	if err := oauthstate.NewSigner([]byte(testKey)).Verify("not.a.jwt"); !errors.Is(err, oauthstate.ErrInvalidState) {
		t.Errorf("want ErrInvalidState, got %v", err)
	}
}

func TestVerify_OtherKey_ReturnsErrInvalidState(t *testing.T) {
	state, err := oauthstate.NewSigner([]byte("a-completely-different-32-char-key")).Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := oauthstate.NewSigner([]byte(testKey)).Verify(state); !errors.Is(err, oauthstate.ErrInvalidState) {
		t.Errorf("want ErrInvalidState, got %v", err)
	}
}

func TestVerify_Expired_ReturnsErrInvalidState(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := oauthstate.NewSigner([]byte(testKey)).WithClock(func() time.Time { return issued })

	state, err := s.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := s.WithClock(func() time.Time { return issued.Add(11 * time.Minute) })
	if err := later.Verify(state); !errors.Is(err, oauthstate.ErrInvalidState) {
		t.Errorf("want ErrInvalidState for expired state, got %v", err)
	}
}
