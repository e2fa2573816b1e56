package memory

import (
	"context"
	"sync"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/repository"
)

// UserRepository keeps users for the lifetime of the process only.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.usernameTakenLocked(user.Username, "") {
		return nil, domain.ErrUsernameTaken
	}

	r.users[user.ID] = user.Clone()
	return user.Clone(), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) Update(_ context.Context, id string, mutate repository.UserMutation) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	user := stored.Clone()
	if err := mutate(user); err != nil {
		return nil, err
	}
	user.ID, user.CreatedAt = stored.ID, stored.CreatedAt

	if r.usernameTakenLocked(user.Username, id) {
		return nil, domain.ErrUsernameTaken
	}

	r.users[id] = user
	return user.Clone(), nil
}

func (r *UserRepository) Ping(_ context.Context) error { return nil }

// usernameTakenLocked reports whether a user other than exceptID owns username.
func (r *UserRepository) usernameTakenLocked(username, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}
