package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, genres, liked_songs, recent_songs, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	liked, recent, err := encodeSongs(user)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, genres, liked_songs, recent_songs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		user.ID, user.Username, genresOrEmpty(user.Genres), liked, recent, user.CreatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByID treats ids that are not UUIDs as unknown.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid)
	return scanUser(row)
}

// Update locks the row for the read-mutate-write cycle.
func (r *UserRepository) Update(ctx context.Context, id string, mutate repository.UserMutation) (user *domain.User, err error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	current, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, uid))
	if err != nil {
		return nil, err
	}

	user = current.Clone()
	if err = mutate(user); err != nil {
		return nil, err
	}

	liked, recent, err := encodeSongs(user)
	if err != nil {
		return nil, err
	}

	user, err = scanUser(tx.QueryRow(ctx, `
		UPDATE users
		SET username = $2, genres = $3, liked_songs = $4, recent_songs = $5
		WHERE id = $1
		RETURNING `+userColumns,
		uid, user.Username, genresOrEmpty(user.Genres), liked, recent,
	))
	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrUsernameTaken
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u      domain.User
		liked  []byte
		recent []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.Genres, &liked, &recent, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if err := json.Unmarshal(liked, &u.LikedSongs); err != nil {
		return nil, fmt.Errorf("decode liked_songs: %w", err)
	}
	if err := json.Unmarshal(recent, &u.RecentSongs); err != nil {
		return nil, fmt.Errorf("decode recent_songs: %w", err)
	}
	if u.Genres == nil {
		u.Genres = []string{}
	}
	return &u, nil
}

// encodeSongs marshals the song lists up front so pgx sends them as raw jsonb.
func encodeSongs(user *domain.User) (liked, recent []byte, err error) {
	liked, err = json.Marshal(tracksOrEmpty(user.LikedSongs))
	if err != nil {
		return nil, nil, fmt.Errorf("encode liked_songs: %w", err)
	}
	recent, err = json.Marshal(tracksOrEmpty(user.RecentSongs))
	if err != nil {
		return nil, nil, fmt.Errorf("encode recent_songs: %w", err)
	}
	return liked, recent, nil
}

func tracksOrEmpty(t []domain.Track) []domain.Track {
	if t == nil {
		return []domain.Track{}
	}
	return t
}

func genresOrEmpty(g []string) []string {
	if g == nil {
		return []string{}
	}
	return g
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
