package repository

import (
	"context"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
)

// UserMutation edits a user in place. ID and CreatedAt changes are ignored.
type UserMutation func(user *domain.User) error

// UserRepository is implemented by the in-memory store (default, dev/tests)
// and the Postgres store (when DATABASE_URL is set).
type UserRepository interface {
	// Create fails with domain.ErrUsernameTaken when the username exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByID fails with domain.ErrUserNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update applies mutate to the stored user and saves the result as one
	// atomic step; concurrent updates of the same user are serialized. It
	// never creates a row: unknown ids fail with domain.ErrUserNotFound. An
	// error from mutate aborts the update unchanged.
	Update(ctx context.Context, id string, mutate UserMutation) (*domain.User, error)
	Ping(ctx context.Context) error
}
