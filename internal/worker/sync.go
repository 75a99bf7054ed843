package worker

import (
	"context"
	"encoding/json"

	"github.com/spacemudd/clarimount2025-sub000/internal/bayzat"
	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"
	syncpkg "github.com/spacemudd/clarimount2025-sub000/internal/sync"

	"github.com/rs/zerolog"
)

// SyncWorker consumes batch jobs and drains each batch through the
// executor.
type SyncWorker struct {
	cfg        *config.Config
	executor   *syncpkg.Executor
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewSyncWorker(
	cfg *config.Config,
	repo db.Repository,
	configs bayzat.ConfigProvider,
	client *bayzat.Client,
	redisClient *queue.RedisClient,
) *SyncWorker {
	executor := syncpkg.NewExecutor(repo, configs, client, cfg.Bayzat.ChunkSize, cfg.Bayzat.RateLimitDelay)
	return &SyncWorker{
		cfg:        cfg,
		executor:   executor,
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Sync.Count),
		log:        logger.Get(),
	}
}

func (w *SyncWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting sync worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeSyncQueue(ctx, w.handleMessage)
}

func (w *SyncWorker) Stop() {
	w.log.Info().Msg("Stopping sync worker")
	w.workerPool.Stop()
}

func (w *SyncWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.SyncJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal sync job")
		return err
	}

	w.log.Info().
		Int64("batch_id", job.BatchID).
		Int64("company_id", job.CompanyID).
		Int64("import_id", job.ImportID).
		Msg("Processing sync job")

	return w.workerPool.Submit(ctx, func(ctx context.Context) error {
		return w.executor.Execute(ctx, job.BatchID)
	})
}
