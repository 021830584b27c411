package main

import (
	"fmt"
	"os"
	"time"

	authrepo "github.com/yungbote/plancast-backend/internal/data/repos/auth"
	planrepo "github.com/yungbote/plancast-backend/internal/data/repos/plan"
	userrepo "github.com/yungbote/plancast-backend/internal/data/repos/user"

	"github.com/yungbote/plancast-backend/internal/clients/redis"
	"github.com/yungbote/plancast-backend/internal/data/db"
	"github.com/yungbote/plancast-backend/internal/http/handlers"
	"github.com/yungbote/plancast-backend/internal/http/middleware"
	"github.com/yungbote/plancast-backend/internal/platform/envutil"
	"github.com/yungbote/plancast-backend/internal/platform/logger"
	"github.com/yungbote/plancast-backend/internal/platform/openai"
	"github.com/yungbote/plancast-backend/internal/platform/sendgrid"
	"github.com/yungbote/plancast-backend/internal/server"
	"github.com/yungbote/plancast-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	refreshTokenTTL := envutil.Int("REFRESH_TOKEN_TTL", 86400)
	listenAddr := envutil.Str("LISTEN_ADDR", ":8080")

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err.Error())
		os.Exit(1)
	}
	gdb := dbService.DB()
	if err := db.AutoMigrateAll(gdb); err != nil {
		log.Warn("Auto migration failed", "error", err.Error())
	}

	// Repos
	userRepo := userrepo.NewUserRepo(gdb, log)
	userTokenRepo := authrepo.NewUserTokenRepo(gdb, log)
	planRepo := planrepo.NewPlanRepo(gdb, log)

	// Cache
	planCache, err := redis.NewPlanCache(log)
	if err != nil {
		log.Warn("Plan cache unavailable, continuing without it", "error", err.Error())
		planCache = nil
	}

	// Outbound clients
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("OpenAI client unavailable, generation and chat disabled", "error", err.Error())
		openaiClient = nil
	}
	sendgridClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("SendGrid client unavailable, milestone emails disabled", "error", err.Error())
		sendgridClient = nil
	}

	// Services
	avatarService, err := services.NewAvatarService(log)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err.Error())
		os.Exit(1)
	}
	authService := services.NewAuthService(
		gdb,
		log,
		userRepo,
		userTokenRepo,
		avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(log, userRepo, avatarService)
	notifier := services.NewMilestoneNotifier(log, services.MilestoneConfigFromEnv(), sendgridClient)
	generator := services.NewCalendarGenService(log, openaiClient)
	planService := services.NewPlanService(log, planRepo, planCache, userRepo, generator, notifier)
	assistantService := services.NewAssistantService(log, openaiClient, planService)

	// HTTP
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
		HealthHandler:  handlers.NewHealthHandler(),
		AuthHandler:    handlers.NewAuthHandler(authService),
		UserHandler:    handlers.NewUserHandler(userService),
		PlanHandler:    handlers.NewPlanHandler(planService),
		ChatHandler:    handlers.NewChatHandler(assistantService),
	})

	log.Info("Starting server", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Error("Server exited", "error", err.Error())
		os.Exit(1)
	}
}
