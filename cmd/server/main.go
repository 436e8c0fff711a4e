package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"p2p-lending.backend/internal/config"
	"p2p-lending.backend/internal/infrastructure/datasources/postgres"
	"p2p-lending.backend/internal/infrastructure/jobs"
	"p2p-lending.backend/internal/infrastructure/mail"
	"p2p-lending.backend/internal/infrastructure/openbanking"
	"p2p-lending.backend/internal/infrastructure/repositories"
	"p2p-lending.backend/internal/infrastructure/storage"
	"p2p-lending.backend/internal/interfaces/http/handlers"
	"p2p-lending.backend/internal/interfaces/http/middleware"
	"p2p-lending.backend/internal/usecases"
	"p2p-lending.backend/pkg/crypto"
	"p2p-lending.backend/pkg/jwt"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/metrics"
	"p2p-lending.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv          = godotenv.Load
	loadCfg             = config.Load
	initLog             = logger.InitWithOptions
	initRedis           = redis.Init
	openDB              = postgres.NewGormDB
	runServer           = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownSignal      = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(logger.Options{Env: cfg.Server.Env, Level: cfg.Log.Level, File: cfg.Log.File})
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(redis.Options{
		URL:       cfg.Redis.URL,
		Password:  cfg.Redis.Password,
		PoolSize:  cfg.Redis.PoolSize,
		KeyPrefix: cfg.Redis.KeyPrefix,
	}); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer func() { _ = redis.Close() }()
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closeDB(db)
	logger.Info(ctx, "Connected to PostgreSQL")

	jwtService := jwt.NewJWTService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	creditScoreRepo := repositories.NewCreditScoreRepository(db)
	bankConnRepo := repositories.NewBankConnectionRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	uow := repositories.NewUnitOfWork(db)

	sealer, err := crypto.NewSealer(cfg.Security.BankTokenKey)
	if err != nil {
		return fmt.Errorf("failed to initialize bank token sealer: %w", err)
	}
	linkSessions := redis.NewLinkSessionStore(sealer)
	bankSource := openbanking.NewMockSource()
	fileStorage, err := storage.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.PublicURL)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	mailer, err := mail.NewDispatcher(mail.NewSender(cfg.Mail.ResendAPIKey, cfg.Mail.From), cfg.Mail.QueueSize)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	authUsecase := usecases.NewAuthUsecase(userRepo, sessionRepo, redis.NewCodeStore(), jwtService, mailer)
	creditUsecase := usecases.NewCreditUsecase(creditScoreRepo, bankConnRepo, bankSource, sealer, cfg.OpenBanking.DefaultIdentity)
	openBankingUsecase := usecases.NewOpenBankingUsecase(bankSource, linkSessions, bankConnRepo, sealer)
	userUsecase := usecases.NewUserUsecase(userRepo, sessionRepo, uow)
	contactUsecase := usecases.NewContactUsecase(contactRepo, mailer)
	fileUsecase := usecases.NewFileUsecase(fileRepo, fileStorage, uow)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	mailer.Start(jobCtx)
	defer mailer.Close()

	cleanupJob := jobs.NewSessionCleanupJob(sessionRepo, cfg.Jobs.SessionCleanupInterval)
	go cleanupJob.Start(jobCtx)
	defer cleanupJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerUploadsRoute(r, cfg.Storage.PublicURL, fileStorage.Root())
	registerAPIV1Routes(r, routeDeps{
		authHandler:        handlers.NewAuthHandler(authUsecase),
		creditHandler:      handlers.NewCreditHandler(creditUsecase),
		openBankingHandler: handlers.NewOpenBankingHandler(openBankingUsecase),
		contactHandler:     handlers.NewContactHandler(contactUsecase),
		userHandler:        handlers.NewUserHandler(userUsecase),
		fileHandler:        handlers.NewFileHandler(fileUsecase),
		authMiddleware:     middleware.AuthMiddleware(jwtService),
		rateLimit: middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			cfg.RateLimit.TTL,
		)),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-shutdownSignal()
		logger.Info(ctx, "Shutting down server")
		cleanupJob.Stop()
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "P2P lending backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
