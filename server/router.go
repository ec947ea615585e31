package server

import (
	"net/http"
	"time"

	"viewtube/domain/repository"
	httpHandler "viewtube/interfaces/http"
	"viewtube/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	videoHandler httpHandler.IVideoHandler,
	recommendationHandler httpHandler.IRecommendationHandler,
	historyHandler httpHandler.IHistoryHandler,
	watchSessionHandler httpHandler.IWatchSessionHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("api/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.GET("/me", middleware.Auth(userRepository), userHandler.GetProfile)
	}

	videos := router.Group("api/videos")
	{
		videos.GET("", videoHandler.List)
		videos.GET("/search", videoHandler.Search)
		videos.GET("/trending", videoHandler.Trending)
		videos.GET("/user/:userId", videoHandler.ByUploader)
		videos.GET("/:videoId", videoHandler.Get)
		videos.PUT("/:videoId/view", videoHandler.AddView)

		videos.POST("", middleware.Auth(userRepository), videoHandler.Upload)
		videos.DELETE("/:videoId", middleware.Auth(userRepository), videoHandler.Delete)
		videos.PUT("/:videoId/like", middleware.Auth(userRepository), videoHandler.Like)
		videos.PUT("/:videoId/dislike", middleware.Auth(userRepository), videoHandler.Dislike)
	}

	recommendations := router.Group("api/recommendations")
	{
		// The personalized feed degrades to the public one for anonymous
		// callers, so auth is optional here.
		recommendations.GET("", middleware.OptionalAuth(), recommendationHandler.GetFeed)
		recommendations.GET("/public", recommendationHandler.GetPublicFeed)
		recommendations.GET("/similar/:videoId", recommendationHandler.GetSimilar)
		recommendations.GET("/channels", middleware.Auth(userRepository), recommendationHandler.GetChannelSuggestions)
	}

	history := router.Group("api/history")
	history.Use(middleware.Auth(userRepository))
	{
		history.POST("", historyHandler.Record)
		history.GET("", historyHandler.List)
		history.DELETE("", historyHandler.Clear)
		history.DELETE("/:entryId", historyHandler.DeleteEntry)
	}

	users := router.Group("api/users")
	{
		users.GET("/:userId", userHandler.GetChannel)
		users.POST("/:userId/subscribe", middleware.Auth(userRepository), userHandler.Subscribe)
	}

	watchSessions := router.Group("api/watch-sessions")
	watchSessions.Use(middleware.Auth(userRepository))
	{
		watchSessions.POST("", watchSessionHandler.Record)
		watchSessions.GET("/summary", watchSessionHandler.Summary)
	}

	return router
}
