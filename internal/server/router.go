package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/plancast-backend/internal/http/handlers"
	"github.com/yungbote/plancast-backend/internal/http/middleware"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware
	HealthHandler  *handlers.HealthHandler
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	PlanHandler    *handlers.PlanHandler
	ChatHandler    *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/theme", cfg.UserHandler.UpdateTheme)
	protected.PUT("/user/webhook", cfg.UserHandler.UpdateWebhook)

	protected.GET("/plan", cfg.PlanHandler.GetPlan)
	protected.DELETE("/plan", cfg.PlanHandler.ResetPlan)
	protected.PUT("/plan/profile", cfg.PlanHandler.UpdateProfile)
	protected.POST("/plan/generate", cfg.PlanHandler.Generate)
	protected.PUT("/plan/theme", cfg.PlanHandler.SetTheme)
	protected.GET("/plan/streak", cfg.PlanHandler.GetStreak)
	protected.POST("/plan/posts/:date/done", cfg.PlanHandler.MarkDone)
	protected.DELETE("/plan/posts/:date/done", cfg.PlanHandler.UnmarkDone)
	protected.PUT("/plan/posts/:date/edit", cfg.PlanHandler.EditPost)
	protected.PUT("/plan/metrics/:date", cfg.PlanHandler.LogMetrics)

	protected.POST("/chat", cfg.ChatHandler.Ask)

	return router
}
