// Package oauthstate issues and verifies the opaque "state" parameter of the
// Spotify authorization-code redirect as a short-lived HS256 JWT, so the
// callback can tell its own redirects from forged ones without server-side
// storage.
package oauthstate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTTL = 10 * time.Minute

var ErrInvalidState = errors.New("oauth state is invalid or expired")

type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSigner(key []byte) *Signer {
	return &Signer{key: key, ttl: defaultTTL, now: time.Now}
}

// WithClock returns a copy of s that reads time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	c := *s
	c.now = now
	return &c
}

// Issue returns a fresh signed state value.
func (s *Signer) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

// Verify fails with ErrInvalidState for anything not issued by this signer
// within its TTL.
func (s *Signer) Verify(state string) error {
	if state == "" {
		return ErrInvalidState
	}
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(_ *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
