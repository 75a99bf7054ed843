package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"
	syncpkg "github.com/spacemudd/clarimount2025-sub000/internal/sync"
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

	log.Info().Str("version", cfg.App.Version).Msg("Starting retry worker")

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

	// Create retry worker
	producer := queue.NewProducer(redisClient, cfg)
	planner := syncpkg.NewPlanner(repo, producer)
	scheduler := syncpkg.NewRetryScheduler(repo, planner, cfg.Bayzat.RetryCeiling)
	retryWorker := worker.NewRetryWorker(cfg, scheduler)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := retryWorker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Retry worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down retry worker...")

	// Cancel context to stop worker
	cancel()
	retryWorker.Stop()

	log.Info().Msg("Retry worker exited")
}
