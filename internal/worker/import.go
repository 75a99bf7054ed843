package worker

import (
	"context"
	"encoding/json"

	"github.com/spacemudd/clarimount2025-sub000/internal/config"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/importer"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"
	syncpkg "github.com/spacemudd/clarimount2025-sub000/internal/sync"

	"github.com/rs/zerolog"
)

// ImportWorker consumes upload jobs, parses each file and, once the
// import completes, plans sync batches for its company-resolved records.
type ImportWorker struct {
	cfg        *config.Config
	service    *importer.Service
	planner    *syncpkg.Planner
	consumer   *queue.Consumer
	workerPool *WorkerPool
	log        zerolog.Logger
}

func NewImportWorker(
	cfg *config.Config,
	repo db.Repository,
	service *importer.Service,
	redisClient *queue.RedisClient,
) *ImportWorker {
	producer := queue.NewProducer(redisClient, cfg)
	return &ImportWorker{
		cfg:        cfg,
		service:    service,
		planner:    syncpkg.NewPlanner(repo, producer),
		consumer:   queue.NewConsumer(redisClient, cfg),
		workerPool: NewWorkerPool(cfg.Workers.Import.Count),
		log:        logger.Get(),
	}
}

func (w *ImportWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting import worker")

	w.workerPool.Start(ctx)

	return w.consumer.ConsumeImportQueue(ctx, w.handleMessage)
}

func (w *ImportWorker) Stop() {
	w.log.Info().Msg("Stopping import worker")
	w.workerPool.Stop()
}

func (w *ImportWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.ImportJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal import job")
		return err
	}

	w.log.Info().Int64("import_id", job.ImportID).Str("storage_key", job.StorageKey).Msg("Processing import job")

	return w.workerPool.Submit(ctx, func(ctx context.Context) error {
		return w.processImport(ctx, job)
	})
}

func (w *ImportWorker) processImport(ctx context.Context, job model.ImportJob) error {
	if err := w.service.ProcessImport(ctx, job); err != nil {
		return err
	}

	batches, err := w.planner.PlanImport(ctx, job.ImportID)
	if err != nil {
		w.log.Error().Err(err).Int64("import_id", job.ImportID).Msg("Failed to plan sync batches")
		return err
	}

	w.log.Info().Int64("import_id", job.ImportID).Int("batches", len(batches)).Msg("Import processed")
	return nil
}
