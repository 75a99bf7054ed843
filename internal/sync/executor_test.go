package sync

import (
	"context"
	"testing"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSyncableRecords(repo *fakeRepo, n int, importID, companyID int64) {
	checkIn := "09:00:00"
	checkOut := "17:30:00"
	empIDs := repo.bayzatIDs[companyID]
	if empIDs == nil {
		empIDs = make(map[int64]string)
		repo.bayzatIDs[companyID] = empIDs
	}

	for i := 0; i < n; i++ {
		employeeID := int64(1000 + i)
		empIDs[employeeID] = "bz-emp"
		repo.addRecord(model.ImportRecord{
			ImportID:         importID,
			CompanyID:        &companyID,
			EmployeeID:       &employeeID,
			Date:             time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			CheckIn:          &checkIn,
			CheckOut:         &checkOut,
			IsValid:          true,
			BayzatSyncStatus: model.RecordSyncPending,
		})
	}
}

func seedBatch(repo *fakeRepo, importID, companyID int64) *model.SyncBatch {
	batch := &model.SyncBatch{CompanyID: companyID, ImportID: importID}
	repo.CreateSyncBatch(context.Background(), batch)
	return batch
}

func enabledConfig(companyID int64) *model.BayzatCompanyConfig {
	return &model.BayzatCompanyConfig{
		CompanyID: companyID,
		Endpoint:  "https://api.bayzat.test/attendance",
		APIKey:    "key",
		Enabled:   true,
	}
}

func countByStatus(repo *fakeRepo, status model.RecordSyncStatus) int {
	n := 0
	for _, rec := range repo.records {
		if rec.BayzatSyncStatus == status {
			n++
		}
	}
	return n
}

func TestExecutorSplitsRecordsIntoChunks(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{}
	seedSyncableRecords(repo, 25, 1, 10)
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 20, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	require.Equal(t, 2, submitter.calls)
	// one check-in and one check-out entry per record
	assert.Equal(t, 40, submitter.sizes[0])
	assert.Equal(t, 10, submitter.sizes[1])
	assert.NotEqual(t, submitter.requestIDs[0], submitter.requestIDs[1])

	final, err := repo.GetSyncBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusCompleted, final.Status)
	assert.Equal(t, 25, final.TotalRecords)
	assert.Equal(t, 25, final.SyncedRecords)
	assert.Equal(t, 0, final.FailedRecords)
	assert.Equal(t, 25, countByStatus(repo, model.RecordSyncSynced))
}

func TestExecutorChunkFailureOnlyAffectsThatChunk(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{failOn: map[int]error{
		2: &apperrors.SyncError{StatusCode: 401, Message: "Invalid API key"},
	}}
	seedSyncableRecords(repo, 25, 1, 10)
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 20, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	final, err := repo.GetSyncBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusCompleted, final.Status)
	assert.Equal(t, 25, final.TotalRecords)
	assert.Equal(t, 20, final.SyncedRecords)
	assert.Equal(t, 5, final.FailedRecords)

	assert.Equal(t, 20, countByStatus(repo, model.RecordSyncSynced))
	assert.Equal(t, 5, countByStatus(repo, model.RecordSyncFailed))

	for _, rec := range repo.records {
		if rec.BayzatSyncStatus != model.RecordSyncFailed {
			continue
		}
		require.NotNil(t, rec.BayzatSyncError)
		assert.Equal(t, "Invalid API key", *rec.BayzatSyncError)
		assert.Equal(t, 1, rec.RetryCount)
		require.NotNil(t, rec.NextRetryAt)
		// first failure waits the 5 minute rung
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), *rec.NextRetryAt, time.Minute)
	}
}

func TestExecutorRecordWithoutBayzatIDFailsInsteadOfSyncing(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{}
	seedSyncableRecords(repo, 2, 1, 10)
	// second employee has no Bayzat employee ID in the directory
	delete(repo.bayzatIDs[10], 1001)
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 20, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	// only the mapped record's two entries went over the wire
	require.Equal(t, 1, submitter.calls)
	assert.Equal(t, 2, submitter.sizes[0])

	assert.Equal(t, model.RecordSyncSynced, repo.records[1].BayzatSyncStatus)

	unmapped := repo.records[2]
	assert.Equal(t, model.RecordSyncFailed, unmapped.BayzatSyncStatus)
	require.NotNil(t, unmapped.BayzatSyncError)
	assert.Equal(t, "No Bayzat employee ID for employee", *unmapped.BayzatSyncError)
	require.NotNil(t, unmapped.NextRetryAt)

	final, err := repo.GetSyncBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, final.TotalRecords)
	assert.Equal(t, 1, final.SyncedRecords)
	assert.Equal(t, 1, final.FailedRecords)
}

func TestExecutorEmptySelectionCompletesImmediately(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{}
	seedSyncableRecords(repo, 3, 1, 10)
	for _, rec := range repo.records {
		rec.BayzatSyncStatus = model.RecordSyncSynced
	}
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 20, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	final, err := repo.GetSyncBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusCompleted, final.Status)
	assert.Equal(t, 0, final.TotalRecords)
	assert.Equal(t, float64(100), final.PercentComplete())
	assert.Equal(t, 0, submitter.calls)
}

func TestExecutorMissingConfigFailsBatchLeavesRecordsPending(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{}
	seedSyncableRecords(repo, 4, 1, 10)
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{}, submitter, 20, time.Millisecond)
	err := executor.Execute(context.Background(), batch.ID)
	require.ErrorIs(t, err, apperrors.ErrBayzatConfigMissing)

	final, getErr := repo.GetSyncBatch(context.Background(), batch.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.BatchStatusFailed, final.Status)
	require.NotNil(t, final.ErrorMessage)

	assert.Equal(t, 4, countByStatus(repo, model.RecordSyncPending))
	assert.Equal(t, 0, submitter.calls)
}

func TestExecutorBackoffClimbsWithRetryCount(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{failOn: map[int]error{
		1: &apperrors.SyncError{StatusCode: 503, Message: "Bayzat server error (HTTP 503)"},
	}}
	seedSyncableRecords(repo, 1, 1, 10)
	for _, rec := range repo.records {
		rec.RetryCount = 2
	}
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 20, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	for _, rec := range repo.records {
		assert.Equal(t, model.RecordSyncFailed, rec.BayzatSyncStatus)
		assert.Equal(t, 3, rec.RetryCount)
		require.NotNil(t, rec.NextRetryAt)
		// third failure waits the 2 hour rung
		assert.WithinDuration(t, time.Now().Add(2*time.Hour), *rec.NextRetryAt, time.Minute)
	}
}

func TestExecutorCountersNeverExceedTotal(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{failOn: map[int]error{
		1: &apperrors.SyncError{StatusCode: 429, Message: "Rate limit exceeded"},
	}}
	seedSyncableRecords(repo, 7, 1, 10)
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 3, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	final, err := repo.GetSyncBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, final.TotalRecords)
	assert.Equal(t, final.TotalRecords, final.SyncedRecords+final.FailedRecords)
	assert.Equal(t, 4, final.SyncedRecords)
	assert.Equal(t, 3, final.FailedRecords)
}

func TestExecutorStampsLastSync(t *testing.T) {
	repo := newFakeRepo()
	submitter := &fakeSubmitter{}
	seedSyncableRecords(repo, 2, 1, 10)
	batch := seedBatch(repo, 1, 10)

	executor := NewExecutor(repo, &fakeConfigProvider{cfg: enabledConfig(10)}, submitter, 20, time.Millisecond)
	require.NoError(t, executor.Execute(context.Background(), batch.ID))

	stamped, ok := repo.lastSyncAt[10]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), stamped, time.Minute)
}
