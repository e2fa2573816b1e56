package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/usecase"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	Create(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	Patch(ctx context.Context, id string, input usecase.PatchUserInput) (*domain.User, error)
}

type UserHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

type createUserRequest struct {
	Username string   `json:"username"`
	Genres   []string `json:"genres" binding:"omitempty,max=50,dive,max=100"`
}

type patchUserRequest struct {
	Username    *string         `json:"username"`
	Genres      *[]string       `json:"genres"`
	LikedSongs  *[]domain.Track `json:"likedSongs"`
	RecentSongs *[]domain.Track `json:"recentSongs"`
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Username: req.Username,
		Genres:   req.Genres,
	})
	if err != nil {
		h.writeError(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// PATCH /api/users/:id
// An empty body is an empty patch and returns the user unchanged.
func (h *UserHandler) Patch(c *gin.Context) {
	var req patchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	id := c.Param("id")
	user, err := h.users.Patch(c.Request.Context(), id, usecase.PatchUserInput{
		Username:    req.Username,
		Genres:      req.Genres,
		LikedSongs:  req.LikedSongs,
		RecentSongs: req.RecentSongs,
	})
	if err != nil {
		h.writeError(c, "patch user", err, "user_id", id)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) writeError(c *gin.Context, op string, err error, attrs ...any) {
	switch {
	case errors.Is(err, domain.ErrUsernameRequired):
		fail(c, http.StatusBadRequest, errUsernameRequired)
	case errors.Is(err, domain.ErrUsernameTaken):
		fail(c, http.StatusConflict, errUsernameTaken)
	case errors.Is(err, domain.ErrUserNotFound):
		fail(c, http.StatusNotFound, errUserNotFound)
	default:
		h.logger.ErrorContext(c.Request.Context(), op, append(attrs, "error", err)...)
		fail(c, http.StatusInternalServerError, errInternalServer)
	}
}
