package sync

import (
	"context"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/bayzat"
	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultChunkSize      = 20
	DefaultRateLimitDelay = time.Second
)

// Submitter is the slice of the Bayzat client the executor needs.
type Submitter interface {
	SubmitRecords(ctx context.Context, endpoint, apiKey string, batch bayzat.RecordBatch, requestID string) error
}

// Executor drains one sync batch: it selects the batch's pending valid
// records, submits them in fixed-size chunks with a rate-limit pause
// between chunks, and tracks per-record and per-batch outcomes.
//
// A finished batch is "completed" even when chunks failed; "failed" is
// reserved for batch-fatal conditions (missing or disabled company
// config), which leave unprocessed records pending for a later attempt.
type Executor struct {
	repo      db.Repository
	configs   bayzat.ConfigProvider
	client    Submitter
	chunkSize int
	delay     time.Duration
	log       zerolog.Logger
}

func NewExecutor(repo db.Repository, configs bayzat.ConfigProvider, client Submitter, chunkSize int, rateLimitDelay time.Duration) *Executor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if rateLimitDelay <= 0 {
		rateLimitDelay = DefaultRateLimitDelay
	}
	return &Executor{
		repo:      repo,
		configs:   configs,
		client:    client,
		chunkSize: chunkSize,
		delay:     rateLimitDelay,
		log:       logger.Get(),
	}
}

func (e *Executor) Execute(ctx context.Context, batchID int64) error {
	log := e.log.With().Int64("batch_id", batchID).Logger()

	batch, err := e.repo.GetSyncBatch(ctx, batchID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load sync batch")
		return err
	}

	if err := e.repo.MarkBatchProcessing(ctx, batch.ID, time.Now()); err != nil {
		return err
	}

	cfg, err := e.configs.CompanyConfig(ctx, batch.CompanyID)
	if err != nil {
		// Batch-fatal: no per-record updates, selection stays pending.
		log.Warn().Err(err).Int64("company_id", batch.CompanyID).Msg("Sync batch aborted")
		if failErr := e.repo.FailBatch(ctx, batch.ID, err.Error(), time.Now()); failErr != nil {
			return failErr
		}
		return err
	}

	records, err := e.repo.SelectPendingRecords(ctx, batch.CompanyID, batch.ImportID)
	if err != nil {
		return err
	}
	if err := e.repo.SetBatchTotal(ctx, batch.ID, len(records)); err != nil {
		return err
	}

	if len(records) == 0 {
		log.Info().Msg("Sync batch has no pending records")
		return e.repo.CompleteBatch(ctx, batch.ID, time.Now())
	}

	empIDs, err := e.repo.BayzatEmployeeIDs(ctx, batch.CompanyID)
	if err != nil {
		if failErr := e.repo.FailBatch(ctx, batch.ID, err.Error(), time.Now()); failErr != nil {
			return failErr
		}
		return err
	}

	chunks := chunkRecords(records, e.chunkSize)
	log.Info().Int("records", len(records)).Int("chunks", len(chunks)).Msg("Draining sync batch")

	// Burst 1 so the first chunk goes out immediately and every
	// following chunk waits out the configured delay.
	limiter := rate.NewLimiter(rate.Every(e.delay), 1)

	for i, chunk := range chunks {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		synced, failed := e.submitChunk(ctx, cfg, chunk, empIDs, log.With().Int("chunk", i+1).Logger())
		if err := e.repo.AddBatchCounts(ctx, batch.ID, synced, failed); err != nil {
			return err
		}
	}

	if err := e.repo.CompleteBatch(ctx, batch.ID, time.Now()); err != nil {
		return err
	}
	if err := e.repo.UpdateBayzatLastSync(ctx, batch.CompanyID, time.Now()); err != nil {
		log.Warn().Err(err).Msg("Failed to stamp last sync time")
	}

	log.Info().Msg("Sync batch completed")
	return nil
}

// submitChunk pushes one chunk and settles every record in it. Chunk
// errors are absorbed into record state and the returned counters.
//
// Only records that made it into the payload may become synced; records
// the payload builder excluded (no Bayzat employee ID) were never
// submitted and are failed with the exclusion reason instead.
func (e *Executor) submitChunk(ctx context.Context, cfg *model.BayzatCompanyConfig, chunk []model.ImportRecord, empIDs map[int64]string, log zerolog.Logger) (synced, failed int) {
	if err := e.repo.MarkRecordsSyncing(ctx, recordIDs(chunk)); err != nil {
		log.Error().Err(err).Msg("Failed to mark chunk syncing")
		return 0, 0
	}

	payload, included, excluded, err := bayzat.BuildRecordBatch(chunk, empIDs)

	for _, ex := range excluded {
		log.Warn().Int64("record_id", ex.Record.ID).Str("reason", ex.Reason).Msg("Record excluded from chunk payload")
		e.failRecords(ctx, []model.ImportRecord{ex.Record}, ex.Reason, log)
	}
	failed = len(excluded)

	if err != nil {
		// Nothing submittable; every record was settled above.
		log.Warn().Err(err).Int("records", len(chunk)).Msg("Chunk produced no payload")
		return 0, failed
	}

	if err := e.client.SubmitRecords(ctx, cfg.Endpoint, cfg.APIKey, payload, uuid.NewString()); err != nil {
		log.Warn().Err(err).Int("records", len(included)).Msg("Chunk submission failed")
		e.failRecords(ctx, included, err.Error(), log)
		return 0, failed + len(included)
	}

	if markErr := e.repo.MarkRecordsSynced(ctx, recordIDs(included), time.Now()); markErr != nil {
		log.Error().Err(markErr).Msg("Failed to mark chunk synced")
		return 0, failed
	}
	return len(included), failed
}

// failRecords stores the error on every record with a next-eligibility
// time off the backoff ladder. Records in one chunk can carry different
// retry counts after partial retries, so they are grouped by count.
func (e *Executor) failRecords(ctx context.Context, chunk []model.ImportRecord, message string, log zerolog.Logger) {
	now := time.Now()

	byRetryCount := make(map[int][]int64)
	for _, rec := range chunk {
		byRetryCount[rec.RetryCount] = append(byRetryCount[rec.RetryCount], rec.ID)
	}

	for retryCount, ids := range byRetryCount {
		nextRetryAt := now.Add(NextRetryDelay(retryCount))
		if err := e.repo.MarkRecordsFailed(ctx, ids, message, nextRetryAt); err != nil {
			log.Error().Err(err).Msg("Failed to mark chunk records failed")
		}
	}
}

func chunkRecords(records []model.ImportRecord, size int) [][]model.ImportRecord {
	var chunks [][]model.ImportRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

func recordIDs(records []model.ImportRecord) []int64 {
	ids := make([]int64, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}
