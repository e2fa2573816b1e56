package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/repository"
	"github.com/google/uuid"
)

type UserUsecase struct {
	repo repository.UserRepository
	now  func() time.Time
}

func NewUserUsecase(repo repository.UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo, now: time.Now}
}

type CreateUserInput struct {
	Username string
	Genres   []string
}

// PatchUserInput carries only the fields the caller supplied; nil fields
// are left untouched.
type PatchUserInput struct {
	Username    *string
	Genres      *[]string
	LikedSongs  *[]domain.Track
	RecentSongs *[]domain.Track
}

func (u *UserUsecase) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, domain.ErrUsernameRequired
	}

	genres := input.Genres
	if genres == nil {
		genres = []string{}
	}

	user := &domain.User{
		ID:          uuid.NewString(),
		Username:    username,
		Genres:      genres,
		LikedSongs:  []domain.Track{},
		RecentSongs: []domain.Track{},
		CreatedAt:   u.now().UTC(),
	}

	created, err := u.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Patch shallow-merges the supplied fields into an existing user. The merge
// runs inside the repository update, so concurrent patches of different
// fields both land. Unknown ids fail with domain.ErrUserNotFound and nothing
// is created.
func (u *UserUsecase) Patch(ctx context.Context, id string, input PatchUserInput) (*domain.User, error) {
	var username string
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, domain.ErrUsernameRequired
		}
	}

	updated, err := u.repo.Update(ctx, id, func(user *domain.User) error {
		if input.Username != nil {
			user.Username = username
		}
		if input.Genres != nil {
			user.Genres = orEmpty(*input.Genres)
		}
		if input.LikedSongs != nil {
			user.LikedSongs = orEmpty(*input.LikedSongs)
		}
		if input.RecentSongs != nil {
			user.RecentSongs = orEmpty(*input.RecentSongs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("patch user: %w", err)
	}
	return updated, nil
}

// orEmpty keeps an explicit JSON null from turning into a null list.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
