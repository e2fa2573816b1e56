package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/soundproxy/internal/transport/http/handler"
	"github.com/ErlanBelekov/soundproxy/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, catalogHandler *handler.CatalogHandler, userHandler *handler.UserHandler, oauthHandler *handler.OAuthHandler) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.HandleMethodNotAllowed = false

	// Recovery sits inside the logger and metrics so a panic is still
	// recorded as a 500.
	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS())

	spotify := r.Group("/api/spotify")
	spotify.GET("/search", catalogHandler.Search)
	spotify.GET("/trending", catalogHandler.Trending)
	spotify.GET("/recommendations", catalogHandler.Recommendations)
	spotify.GET("/tracks", catalogHandler.Tracks)
	spotify.GET("/login", oauthHandler.Login)

	users := r.Group("/api/users")
	users.POST("", userHandler.Create)
	users.PATCH("/:id", userHandler.Patch)

	r.GET("/callback", oauthHandler.Callback)

	r.NoRoute(handler.NotFound)

	return r
}
