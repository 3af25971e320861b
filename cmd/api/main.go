package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushire/backend/internal/aggregator"
	"github.com/campushire/backend/internal/api"
	"github.com/campushire/backend/internal/api/handlers"
	"github.com/campushire/backend/internal/repository"
	"github.com/campushire/backend/internal/services"
	"github.com/campushire/backend/pkg/config"
	"github.com/campushire/backend/pkg/database"
	"github.com/campushire/backend/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting campus hire backend",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected")

	// Redis is optional; without it the external-job cache silently disables.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, external-job caching disabled", zap.Error(err))
			rdb = nil
		}
	}

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	msgRepo := repository.NewMessageRepository(db)

	verifier := services.NewGoogleVerifier(cfg.GoogleClientID)
	authSvc := services.NewAuthService(userRepo, verifier, []byte(cfg.JWTSecret), cfg.JWTTTL)
	userSvc := services.NewUserService(userRepo)
	jobSvc := services.NewJobService(jobRepo, appRepo)
	appSvc := services.NewApplicationService(appRepo, jobRepo)
	msgSvc := services.NewMessageService(msgRepo, userRepo)

	agg := aggregator.NewService(rdb,
		aggregator.NewIndeedSource(cfg.ExternalFetchTimeout),
		aggregator.NewGitHubSource(),
		aggregator.NewStartupSource(),
	)

	router := api.NewRouter(api.Dependencies{
		HMACSecret: []byte(cfg.JWTSecret),
		Production: cfg.Production(),
		DB:         db,
		UserRepo:   userRepo,

		AuthHandler:         handlers.NewAuthHandler(authSvc),
		UsersHandler:        handlers.NewUsersHandler(userSvc),
		JobsHandler:         handlers.NewJobsHandler(jobSvc),
		ApplicationsHandler: handlers.NewApplicationsHandler(appSvc),
		MessagesHandler:     handlers.NewMessagesHandler(msgSvc),
		ExternalJobsHandler: handlers.NewExternalJobsHandler(agg),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
