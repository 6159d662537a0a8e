package router

import (
	"context"
	"time"

	"FilmDB/internal/handler"
	"FilmDB/internal/middleware"
	"FilmDB/internal/pkg"
	"FilmDB/internal/repository/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Community *handler.CommunityHandler
	Media     *handler.MediaHandler
	Rating    *handler.RatingHandler
	Comment   *handler.CommentHandler
	User      *handler.UserHandler
	TMDB      *handler.TMDBHandler

	Tokens       *pkg.TokenManager
	Sessions     *redis.SessionRepository
	AllowOrigins []string
	HealthChecks map[string]func(context.Context) error
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(handler.NoMethod)
	r.NoRoute(handler.NoRoute)

	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.PrometheusMetrics())
	r.Use(cors.New(corsConfig(d.AllowOrigins)))

	r.GET("/healthz", handler.Health(d.HealthChecks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.Auth(d.Tokens, d.Sessions)
	api := r.Group("/api")

	// sessions
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", d.User.Register)
		authGroup.POST("/login", d.User.Login)
		authGroup.POST("/refresh", d.User.Refresh)
		authGroup.POST("/logout", auth, d.User.Logout)
		authGroup.GET("/me", auth, d.User.Me)
		authGroup.PATCH("/me", auth, d.User.UpdateProfile)
		authGroup.POST("/change-password", auth, d.User.ChangePassword)
	}

	tmdbGroup := api.Group("/tmdb", auth)
	{
		tmdbGroup.GET("/search", d.TMDB.Search)
		tmdbGroup.GET("/:mediaType/:tmdbId", d.TMDB.Details)
	}

	community := api.Group("/community", auth)
	{
		community.GET("", d.Community.List)
		community.POST("", d.Community.Create)
		community.POST("/join", d.Community.Join)
		community.GET("/:community", d.Community.Get)
		community.PATCH("/:community", d.Community.Update)
		community.POST("/:community/leave", d.Community.Leave)
		community.POST("/:community/invite", d.Community.Invite)
	}

	// watch list, ratings and comments
	media := community.Group("/:community/media")
	{
		media.GET("", d.Media.List)
		media.POST("", d.Media.CreateOrUpdate)
		media.PATCH("", d.Media.Reorder)
		media.GET("/:mediaId", d.Media.Get)
		media.PATCH("/:mediaId", d.Media.Update)
		media.DELETE("/:mediaId", d.Media.Delete)

		media.POST("/:mediaId/rating", d.Rating.Upsert)
		media.PATCH("/:mediaId/rating", d.Rating.Upsert)
		media.GET("/:mediaId/rating", d.Rating.List)
		media.DELETE("/:mediaId/rating", d.Rating.Delete)

		media.GET("/:mediaId/comments", d.Comment.List)
		media.POST("/:mediaId/comments", d.Comment.Create)
		media.PATCH("/:mediaId/comments/:commentId", d.Comment.Update)
		media.DELETE("/:mediaId/comments/:commentId", d.Comment.Delete)
		media.POST("/:mediaId/comments/:commentId/like", d.Comment.Like)
		media.DELETE("/:mediaId/comments/:commentId/like", d.Comment.Unlike)
		media.GET("/:mediaId/comments/:commentId/like", d.Comment.LikeStatus)
	}

	return r
}

// corsConfig allows the configured origins; an empty list or "*" opens
// every origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
