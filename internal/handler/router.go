package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickupsports/gamehub/internal/config"
	"pickupsports/gamehub/internal/handler/middleware"
	jwtpkg "pickupsports/gamehub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	gameHandler *GameHandler,
	rsvpHandler *RSVPHandler,
	notificationHandler *NotificationHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		games := protected.Group("/games")
		{
			games.POST("", gameHandler.Create)
			games.GET("/:id", gameHandler.Get)
			games.PATCH("/:id/capacity", gameHandler.ChangeCapacity)
			games.DELETE("/:id", gameHandler.Delete)

			games.POST("/:id/join", rsvpHandler.Join)
			games.DELETE("/:id/leave", rsvpHandler.Leave)
			games.DELETE("/:id/waitlist", rsvpHandler.Withdraw)
			games.GET("/:id/participants", rsvpHandler.Participants)
			games.GET("/:id/waitlist/position", rsvpHandler.WaitlistPosition)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminAuth(cfg.Admin.UserIDs))
		{
			admin.POST("/games/:id/promote", adminHandler.Promote)
		}
	}

	return r
}
