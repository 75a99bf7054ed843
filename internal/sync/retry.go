package sync

import (
	"context"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"

	"github.com/rs/zerolog"
)

const DefaultRetryCeiling = 5

// RetryScheduler sweeps failed records whose backoff window has passed,
// resets them to pending and replans them into fresh sync batches. A
// record is eligible only while its retry count is below the ceiling;
// records at the ceiling stay failed until an operator resets them.
type RetryScheduler struct {
	repo    db.Repository
	planner *Planner
	ceiling int
	log     zerolog.Logger
}

func NewRetryScheduler(repo db.Repository, planner *Planner, ceiling int) *RetryScheduler {
	if ceiling <= 0 {
		ceiling = DefaultRetryCeiling
	}
	return &RetryScheduler{
		repo:    repo,
		planner: planner,
		ceiling: ceiling,
		log:     logger.Get(),
	}
}

// Run performs one sweep over the given scope. An empty scope sweeps
// every company and import.
func (s *RetryScheduler) Run(ctx context.Context, scope model.RetryScope) ([]model.SyncBatch, error) {
	records, err := s.repo.SelectRetryableRecords(ctx, scope, s.ceiling, time.Now())
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		s.log.Debug().Msg("No records eligible for retry")
		return nil, nil
	}

	// Reset keeps retry_count intact: the next failure climbs the
	// backoff ladder instead of starting over.
	if err := s.repo.ResetRecordsForRetry(ctx, recordIDs(records)); err != nil {
		return nil, err
	}

	s.log.Info().Int("records", len(records)).Msg("Rescheduling failed records")
	return s.planner.PlanRecords(ctx, records)
}

// ExhaustedRecords lists records that hit the retry ceiling and now
// need operator attention.
func (s *RetryScheduler) ExhaustedRecords(ctx context.Context, scope model.RetryScope) ([]model.ImportRecord, error) {
	return s.repo.ListExhaustedRecords(ctx, scope, s.ceiling)
}

// ResetExhausted is the manual escape hatch: it zeroes the retry count
// of exhausted records, returns them to pending and replans them.
func (s *RetryScheduler) ResetExhausted(ctx context.Context, scope model.RetryScope) ([]model.SyncBatch, error) {
	records, err := s.repo.ListExhaustedRecords(ctx, scope, s.ceiling)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	if err := s.repo.ResetExhaustedRecords(ctx, recordIDs(records)); err != nil {
		return nil, err
	}

	s.log.Info().Int("records", len(records)).Msg("Reset exhausted records for a fresh sync attempt")
	return s.planner.PlanRecords(ctx, records)
}
