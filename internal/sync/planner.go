package sync

import (
	"context"
	"sort"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	"github.com/spacemudd/clarimount2025-sub000/internal/queue"

	"github.com/rs/zerolog"
)

// JobEnqueuer dispatches one sync executor run per created batch.
// *queue.Producer satisfies it in production.
type JobEnqueuer interface {
	EnqueueSyncJob(ctx context.Context, job model.SyncJob) error
}

var _ JobEnqueuer = (*queue.Producer)(nil)

// Planner groups company-resolved records into per-company sync batches
// and dispatches one executor job per batch. Planning is idempotent:
// batch totals are stamped by the executor from its pending-only
// selection, so replanning an already-synced import yields empty
// batches, never duplicate submissions.
type Planner struct {
	repo     db.Repository
	enqueuer JobEnqueuer
	log      zerolog.Logger
}

func NewPlanner(repo db.Repository, enqueuer JobEnqueuer) *Planner {
	return &Planner{
		repo:     repo,
		enqueuer: enqueuer,
		log:      logger.Get(),
	}
}

// PlanImport builds batches for one finished import from its valid,
// company-resolved records.
func (p *Planner) PlanImport(ctx context.Context, importID int64) ([]model.SyncBatch, error) {
	records, err := p.repo.ListValidRecords(ctx, importID)
	if err != nil {
		return nil, err
	}
	return p.plan(ctx, records)
}

// PlanRecords builds batches from an explicit selection, one batch per
// distinct (company, import) pair. Used by the retry scheduler.
func (p *Planner) PlanRecords(ctx context.Context, records []model.ImportRecord) ([]model.SyncBatch, error) {
	return p.plan(ctx, records)
}

func (p *Planner) plan(ctx context.Context, records []model.ImportRecord) ([]model.SyncBatch, error) {
	type groupKey struct {
		companyID int64
		importID  int64
	}

	groups := make(map[groupKey]int)
	for _, rec := range records {
		if rec.CompanyID == nil {
			continue // never batch a company-less record
		}
		groups[groupKey{companyID: *rec.CompanyID, importID: rec.ImportID}]++
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].companyID != keys[j].companyID {
			return keys[i].companyID < keys[j].companyID
		}
		return keys[i].importID < keys[j].importID
	})

	var batches []model.SyncBatch
	for _, key := range keys {
		batch := model.SyncBatch{
			CompanyID: key.companyID,
			ImportID:  key.importID,
			CreatedAt: time.Now(),
		}
		if err := p.repo.CreateSyncBatch(ctx, &batch); err != nil {
			return batches, err
		}

		job := model.SyncJob{BatchID: batch.ID, CompanyID: batch.CompanyID, ImportID: batch.ImportID}
		if err := p.enqueuer.EnqueueSyncJob(ctx, job); err != nil {
			return batches, err
		}

		p.log.Info().
			Int64("batch_id", batch.ID).
			Int64("company_id", batch.CompanyID).
			Int64("import_id", batch.ImportID).
			Int("candidates", groups[key]).
			Msg("Sync batch planned")
		batches = append(batches, batch)
	}

	return batches, nil
}
