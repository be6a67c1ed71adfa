package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pickupsports/gamehub/internal/config"
	"pickupsports/gamehub/internal/handler"
	"pickupsports/gamehub/internal/model"
	"pickupsports/gamehub/internal/repository"
	"pickupsports/gamehub/internal/service"
	jwtpkg "pickupsports/gamehub/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize the RSVP backend (shared postgres or single-instance memory)
	var (
		participantRepo repository.ParticipantRepository
		waitlistRepo    repository.WaitlistRepository
		stateStore      repository.StateStore
		pushQueue       repository.PushQueue
	)
	switch cfg.RSVP.Backend {
	case "postgres":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		participantRepo = repository.NewPGParticipantRepository(db)
		waitlistRepo = repository.NewPGWaitlistRepository(db)
		stateStore = repository.NewRedisStateStore(redisClient)
		pushQueue = repository.NewRedisPushQueue(redisClient)
		logger.Info("using postgres RSVP backend")
	case "memory":
		memParticipants := repository.NewMemoryParticipantRepository()
		participantRepo = memParticipants
		waitlistRepo = repository.NewMemoryWaitlistRepository(memParticipants)
		stateStore = repository.NewMemoryStateStore()
		pushQueue = repository.NewMemoryPushQueue()
		logger.Info("using in-memory RSVP backend")
	default:
		logger.Fatal("unknown rsvp backend", zap.String("backend", cfg.RSVP.Backend))
	}

	// 6. Initialize repositories
	gameRepo := repository.NewPGGameRepository(db)
	userRepo := repository.NewPGUserRepository(db)
	notificationRepo := repository.NewPGNotificationRepository(db)

	// 7. Mail sender (optional email channel)
	var mailSender service.MailSender
	if cfg.SMTP.Host != "" {
		mailSender, err = service.NewSMTPSender(cfg.SMTP)
		if err != nil {
			logger.Fatal("failed to init smtp sender", zap.Error(err))
		}
		logger.Info("email channel enabled", zap.String("host", cfg.SMTP.Host))
	}

	// 8. Initialize services
	dispatcher := service.NewNotificationDispatcher(userRepo, notificationRepo, pushQueue, mailSender, logger)
	promotionService := service.NewPromotionService(gameRepo, waitlistRepo, dispatcher)
	rsvpService := service.NewRSVPService(gameRepo, userRepo, participantRepo, waitlistRepo, promotionService)
	gameService := service.NewGameService(gameRepo, participantRepo, waitlistRepo, promotionService)
	idempotency := service.NewIdempotencyStore(stateStore, cfg.RSVP.IdempotencyTTL)

	// 9. Initialize JWT manager (validates tokens from the identity service)
	jwtManager := jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)

	// 10. Initialize handlers
	gameHandler := handler.NewGameHandler(gameService)
	rsvpHandler := handler.NewRSVPHandler(rsvpService, idempotency)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(promotionService)

	// 11. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, gameHandler, rsvpHandler, notificationHandler, adminHandler)

	// 12. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 13. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
