package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/contacts-service/internal/config"
	"github.com/Dan9191/contacts-service/internal/handler"
	"github.com/Dan9191/contacts-service/internal/limiter"
	"github.com/Dan9191/contacts-service/internal/middleware"
	"github.com/Dan9191/contacts-service/internal/repository"
	"github.com/Dan9191/contacts-service/internal/scheduler"
	"github.com/Dan9191/contacts-service/internal/service"
	"github.com/Dan9191/contacts-service/internal/storage"
	"github.com/Dan9191/contacts-service/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	deps := service.Deps{
		Mailer:  email.NewSender(cfg, logger),
		Limiter: limiter.Nop{},
	}
	if cfg.MongoURI != "" {
		client, err := repository.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Errorf("Failed to disconnect from database: %v", err)
			}
		}()
		db := client.Database(cfg.MongoDatabase)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			logger.Fatalf("Failed to create indexes: %v", err)
		}
		deps.Users = repository.NewUserRepository(db)
		deps.Contacts = repository.NewContactRepository(db)
	} else {
		logger.Warn("MONGO_URI is not set, using in-memory store")
		deps.Users = repository.NewMemoryUserRepository()
		deps.Contacts = repository.NewMemoryContactRepository()
	}

	// Initialize avatar storage
	var avatarsDir string
	if cfg.UseS3() {
		s3Storage, err := storage.NewS3(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Fatalf("Failed to init s3 storage: %v", err)
		}
		deps.Avatars = s3Storage
	} else {
		local, err := storage.NewLocal(cfg.AvatarsDir, "/avatars")
		if err != nil {
			logger.Fatalf("Failed to init avatar storage: %v", err)
		}
		deps.Avatars = local
		avatarsDir = local.Dir()
	}

	// Initialize resend limiter
	if cfg.RedisURL != "" {
		resend, err := limiter.NewResend(ctx, cfg.RedisURL, cfg.ResendLimit, cfg.ResendWindow)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer resend.Close()
		deps.Limiter = resend
	}

	// Initialize layers
	svc := service.NewService(deps, logger, cfg)
	h := handler.NewHandler(svc, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Setup router
	r := handler.NewRouter(h, handler.RouterOptions{
		Auth: middleware.AuthMiddleware(svc, logger),
		Middleware: []mux.MiddlewareFunc{
			middleware.Logging(logger),
			rateLimiter.Middleware(logger),
		},
		AvatarsDir: avatarsDir,
	})

	// Start background jobs
	jobs, err := scheduler.New(svc, cfg.PendingEmailSchedule, logger)
	if err != nil {
		logger.Fatalf("Failed to init scheduler: %v", err)
	}
	jobs.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	jobs.Stop(shutdownCtx)
}
