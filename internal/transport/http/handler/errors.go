package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errInternalServer   = "Internal server error"
	errRouteNotFound    = "Route not found"
	errInvalidBody      = "Invalid request body"
	errQueryRequired    = "Query parameter 'q' is required"
	errGenresRequired   = "Query parameter 'seed_genres' is required"
	errIDsRequired      = "Query parameter 'ids' is required"
	errUsernameRequired = "Username is required"
	errUsernameTaken    = "Username already taken"
	errUserNotFound     = "User not found"
	errLoginDisabled    = "Spotify login is not configured"
)

// fail writes the error envelope every handler shares.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// NotFound answers every unmatched method and path.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, errRouteNotFound)
}
