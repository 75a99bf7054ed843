package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacemudd/clarimount2025-sub000/internal/api"
	"github.com/spacemudd/clarimount2025-sub000/internal/bayzat"
	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"
	"github.com/spacemudd/clarimount2025-sub000/internal/secrets"
	"github.com/spacemudd/clarimount2025-sub000/internal/storage"
	syncpkg "github.com/spacemudd/clarimount2025-sub000/internal/sync"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting API server")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize repository
	repo := db.NewRepository(database)

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize queue producer
	producer := queue.NewProducer(redisClient, cfg)

	// Initialize upload storage
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Initialize Bayzat access for the probe and manual retry endpoints
	cipher, err := secrets.NewCipher(cfg.Secrets.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize secrets cipher")
	}
	configs := bayzat.NewConfigProvider(repo, cipher)
	client := bayzat.NewClient(cfg.Bayzat.Timeout)

	planner := syncpkg.NewPlanner(repo, producer)
	scheduler := syncpkg.NewRetryScheduler(repo, planner, cfg.Bayzat.RetryCeiling)

	// Initialize API handler
	handler := api.NewHandler(repo, producer, store, scheduler, configs, client, cfg)

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	// Setup routes
	api.SetupRoutes(router, handler)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
