package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/bayzat"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"
)

// fakeRepo mirrors the repository's guarded-update semantics in memory.
type fakeRepo struct {
	records      map[int64]*model.ImportRecord
	batches      map[int64]*model.SyncBatch
	imports      map[int64]*model.Import
	bayzatIDs    map[int64]map[int64]string
	configs      map[int64]*model.BayzatCompanyConfig
	lastSyncAt   map[int64]time.Time
	nextRecordID int64
	nextBatchID  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:    make(map[int64]*model.ImportRecord),
		batches:    make(map[int64]*model.SyncBatch),
		imports:    make(map[int64]*model.Import),
		bayzatIDs:  make(map[int64]map[int64]string),
		configs:    make(map[int64]*model.BayzatCompanyConfig),
		lastSyncAt: make(map[int64]time.Time),
	}
}

func (f *fakeRepo) addRecord(rec model.ImportRecord) *model.ImportRecord {
	f.nextRecordID++
	rec.ID = f.nextRecordID
	stored := rec
	f.records[stored.ID] = &stored
	return &stored
}

func (f *fakeRepo) sortedRecords(keep func(*model.ImportRecord) bool) []model.ImportRecord {
	ids := make([]int64, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []model.ImportRecord
	for _, id := range ids {
		if rec := f.records[id]; keep(rec) {
			out = append(out, *rec)
		}
	}
	return out
}

func (f *fakeRepo) CreateImport(ctx context.Context, imp *model.Import) error {
	imp.ID = int64(len(f.imports) + 1)
	f.imports[imp.ID] = imp
	return nil
}

func (f *fakeRepo) GetImport(ctx context.Context, id int64) (*model.Import, error) {
	imp, ok := f.imports[id]
	if !ok {
		return nil, apperrors.ErrImportNotFound
	}
	return imp, nil
}

func (f *fakeRepo) StartImport(ctx context.Context, id int64, at time.Time) error { return nil }

func (f *fakeRepo) FinalizeImport(ctx context.Context, imp *model.Import) error { return nil }

func (f *fakeRepo) InsertImportRecords(ctx context.Context, records []*model.ImportRecord) error {
	for _, rec := range records {
		stored := f.addRecord(*rec)
		rec.ID = stored.ID
	}
	return nil
}

func (f *fakeRepo) ListImportRecords(ctx context.Context, importID int64) ([]model.ImportRecord, error) {
	return f.sortedRecords(func(r *model.ImportRecord) bool {
		return r.ImportID == importID
	}), nil
}

func (f *fakeRepo) ListValidRecords(ctx context.Context, importID int64) ([]model.ImportRecord, error) {
	return f.sortedRecords(func(r *model.ImportRecord) bool {
		return r.ImportID == importID && r.IsValid && r.CompanyID != nil
	}), nil
}

func (f *fakeRepo) SelectPendingRecords(ctx context.Context, companyID, importID int64) ([]model.ImportRecord, error) {
	return f.sortedRecords(func(r *model.ImportRecord) bool {
		return r.Syncable() && *r.CompanyID == companyID && r.ImportID == importID
	}), nil
}

func (f *fakeRepo) MarkRecordsSyncing(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if rec, ok := f.records[id]; ok && model.CheckTransition(rec.BayzatSyncStatus, model.RecordSyncSyncing) == nil {
			rec.BayzatSyncStatus = model.RecordSyncSyncing
		}
	}
	return nil
}

func (f *fakeRepo) MarkRecordsSynced(ctx context.Context, ids []int64, at time.Time) error {
	for _, id := range ids {
		if rec, ok := f.records[id]; ok && model.CheckTransition(rec.BayzatSyncStatus, model.RecordSyncSynced) == nil {
			rec.BayzatSyncStatus = model.RecordSyncSynced
			rec.BayzatSyncError = nil
			syncedAt := at
			rec.BayzatSyncedAt = &syncedAt
		}
	}
	return nil
}

func (f *fakeRepo) MarkRecordsFailed(ctx context.Context, ids []int64, message string, nextRetryAt time.Time) error {
	for _, id := range ids {
		if rec, ok := f.records[id]; ok && model.CheckTransition(rec.BayzatSyncStatus, model.RecordSyncFailed) == nil {
			rec.BayzatSyncStatus = model.RecordSyncFailed
			msg := message
			rec.BayzatSyncError = &msg
			rec.RetryCount++
			next := nextRetryAt
			rec.NextRetryAt = &next
		}
	}
	return nil
}

func (f *fakeRepo) SelectRetryableRecords(ctx context.Context, scope model.RetryScope, ceiling int, now time.Time) ([]model.ImportRecord, error) {
	return f.sortedRecords(func(r *model.ImportRecord) bool {
		if r.BayzatSyncStatus != model.RecordSyncFailed || r.RetryCount >= ceiling {
			return false
		}
		if r.NextRetryAt != nil && r.NextRetryAt.After(now) {
			return false
		}
		return inScope(r, scope)
	}), nil
}

func (f *fakeRepo) ResetRecordsForRetry(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if rec, ok := f.records[id]; ok && model.CheckTransition(rec.BayzatSyncStatus, model.RecordSyncPending) == nil {
			rec.BayzatSyncStatus = model.RecordSyncPending
			rec.BayzatSyncError = nil
			rec.NextRetryAt = nil
		}
	}
	return nil
}

func (f *fakeRepo) ListExhaustedRecords(ctx context.Context, scope model.RetryScope, ceiling int) ([]model.ImportRecord, error) {
	return f.sortedRecords(func(r *model.ImportRecord) bool {
		return r.BayzatSyncStatus == model.RecordSyncFailed && r.RetryCount >= ceiling && inScope(r, scope)
	}), nil
}

func (f *fakeRepo) ResetExhaustedRecords(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if rec, ok := f.records[id]; ok && model.CheckTransition(rec.BayzatSyncStatus, model.RecordSyncPending) == nil {
			rec.BayzatSyncStatus = model.RecordSyncPending
			rec.BayzatSyncError = nil
			rec.NextRetryAt = nil
			rec.RetryCount = 0
		}
	}
	return nil
}

func (f *fakeRepo) CreateSyncBatch(ctx context.Context, batch *model.SyncBatch) error {
	f.nextBatchID++
	batch.ID = f.nextBatchID
	batch.Status = model.BatchStatusPending
	stored := *batch
	f.batches[stored.ID] = &stored
	return nil
}

func (f *fakeRepo) GetSyncBatch(ctx context.Context, id int64) (*model.SyncBatch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, apperrors.ErrBatchNotFound
	}
	copied := *batch
	return &copied, nil
}

func (f *fakeRepo) MarkBatchProcessing(ctx context.Context, id int64, at time.Time) error {
	if batch, ok := f.batches[id]; ok && model.CheckTransition(batch.Status, model.BatchStatusProcessing) == nil {
		batch.Status = model.BatchStatusProcessing
		startedAt := at
		batch.StartedAt = &startedAt
	}
	return nil
}

func (f *fakeRepo) SetBatchTotal(ctx context.Context, id int64, total int) error {
	if batch, ok := f.batches[id]; ok {
		batch.TotalRecords = total
	}
	return nil
}

func (f *fakeRepo) AddBatchCounts(ctx context.Context, id int64, synced, failed int) error {
	if batch, ok := f.batches[id]; ok {
		batch.SyncedRecords += synced
		batch.FailedRecords += failed
	}
	return nil
}

func (f *fakeRepo) CompleteBatch(ctx context.Context, id int64, at time.Time) error {
	if batch, ok := f.batches[id]; ok && model.CheckTransition(batch.Status, model.BatchStatusCompleted) == nil {
		batch.Status = model.BatchStatusCompleted
		completedAt := at
		batch.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeRepo) FailBatch(ctx context.Context, id int64, message string, at time.Time) error {
	if batch, ok := f.batches[id]; ok && model.CheckTransition(batch.Status, model.BatchStatusFailed) == nil {
		batch.Status = model.BatchStatusFailed
		batch.ErrorMessage = &message
		completedAt := at
		batch.CompletedAt = &completedAt
	}
	return nil
}

func (f *fakeRepo) EmployeesByCode(ctx context.Context) (map[string]*model.Employee, error) {
	return nil, nil
}

func (f *fakeRepo) DepartmentCompanies(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeRepo) BayzatEmployeeIDs(ctx context.Context, companyID int64) (map[int64]string, error) {
	return f.bayzatIDs[companyID], nil
}

func (f *fakeRepo) GetBayzatConfig(ctx context.Context, companyID int64) (*model.BayzatCompanyConfig, error) {
	return f.configs[companyID], nil
}

func (f *fakeRepo) UpdateBayzatLastSync(ctx context.Context, companyID int64, at time.Time) error {
	f.lastSyncAt[companyID] = at
	return nil
}

func inScope(r *model.ImportRecord, scope model.RetryScope) bool {
	if scope.CompanyID != nil && (r.CompanyID == nil || *r.CompanyID != *scope.CompanyID) {
		return false
	}
	if scope.ImportID != nil && r.ImportID != *scope.ImportID {
		return false
	}
	return true
}

// fakeEnqueuer captures planned sync jobs.
type fakeEnqueuer struct {
	jobs []model.SyncJob
	err  error
}

func (f *fakeEnqueuer) EnqueueSyncJob(ctx context.Context, job model.SyncJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

// fakeConfigProvider serves one scripted config or error.
type fakeConfigProvider struct {
	cfg *model.BayzatCompanyConfig
	err error
}

func (f *fakeConfigProvider) CompanyConfig(ctx context.Context, companyID int64) (*model.BayzatCompanyConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return nil, fmt.Errorf("%w: company %d", apperrors.ErrBayzatConfigMissing, companyID)
	}
	return f.cfg, nil
}

// fakeSubmitter records submissions and fails calls by 1-based index.
type fakeSubmitter struct {
	calls      int
	sizes      []int
	requestIDs []string
	failOn     map[int]error
}

func (f *fakeSubmitter) SubmitRecords(ctx context.Context, endpoint, apiKey string, batch bayzat.RecordBatch, requestID string) error {
	f.calls++
	f.sizes = append(f.sizes, len(batch.Records))
	f.requestIDs = append(f.requestIDs, requestID)
	if err, ok := f.failOn[f.calls]; ok {
		return err
	}
	return nil
}
