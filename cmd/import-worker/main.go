package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/importer"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"
	"github.com/spacemudd/clarimount2025-sub000/internal/storage"
	"github.com/spacemudd/clarimount2025-sub000/internal/worker"
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

	log.Info().Str("version", cfg.App.Version).Msg("Starting import worker")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize repository
	repo := db.NewRepository(database)

	// Initialize upload storage
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Create import worker
	service := importer.NewService(repo, store, cfg.Workers.Import.InsertBatchSize)
	importWorker := worker.NewImportWorker(cfg, repo, service, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := importWorker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Import worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down import worker...")

	// Cancel context to stop worker
	cancel()
	importWorker.Stop()

	log.Info().Msg("Import worker exited")
}
