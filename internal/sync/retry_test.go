package sync

import (
	"context"
	"testing"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedRecord(repo *fakeRepo, importID, companyID int64, retryCount int, nextRetryAt time.Time) *model.ImportRecord {
	msg := "Bayzat server error (HTTP 503)"
	return repo.addRecord(model.ImportRecord{
		ImportID:         importID,
		CompanyID:        &companyID,
		IsValid:          true,
		BayzatSyncStatus: model.RecordSyncFailed,
		BayzatSyncError:  &msg,
		RetryCount:       retryCount,
		NextRetryAt:      &nextRetryAt,
	})
}

func TestRetrySweepResetsEligibleRecords(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	scheduler := NewRetryScheduler(repo, NewPlanner(repo, enqueuer), 5)

	past := time.Now().Add(-time.Minute)
	eligible := failedRecord(repo, 1, 10, 2, past)

	batches, err := scheduler.Run(context.Background(), model.RetryScope{})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Len(t, enqueuer.jobs, 1)

	rec := repo.records[eligible.ID]
	assert.Equal(t, model.RecordSyncPending, rec.BayzatSyncStatus)
	assert.Nil(t, rec.BayzatSyncError)
	assert.Nil(t, rec.NextRetryAt)
	// the counter survives the reset so backoff keeps climbing
	assert.Equal(t, 2, rec.RetryCount)
}

func TestRetrySweepSkipsRecordsStillInBackoff(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	scheduler := NewRetryScheduler(repo, NewPlanner(repo, enqueuer), 5)

	future := time.Now().Add(time.Hour)
	waiting := failedRecord(repo, 1, 10, 1, future)

	batches, err := scheduler.Run(context.Background(), model.RetryScope{})
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.Equal(t, model.RecordSyncFailed, repo.records[waiting.ID].BayzatSyncStatus)
}

func TestRetrySweepExcludesExhaustedRecords(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	scheduler := NewRetryScheduler(repo, NewPlanner(repo, enqueuer), 5)

	past := time.Now().Add(-time.Minute)
	exhausted := failedRecord(repo, 1, 10, 5, past)

	batches, err := scheduler.Run(context.Background(), model.RetryScope{})
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.Equal(t, model.RecordSyncFailed, repo.records[exhausted.ID].BayzatSyncStatus)

	listed, err := scheduler.ExhaustedRecords(context.Background(), model.RetryScope{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, exhausted.ID, listed[0].ID)
}

func TestRetrySweepHonoursScope(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	scheduler := NewRetryScheduler(repo, NewPlanner(repo, enqueuer), 5)

	past := time.Now().Add(-time.Minute)
	matching := failedRecord(repo, 1, 10, 1, past)
	other := failedRecord(repo, 1, 20, 1, past)

	companyID := int64(10)
	batches, err := scheduler.Run(context.Background(), model.RetryScope{CompanyID: &companyID})
	require.NoError(t, err)
	require.Len(t, batches, 1)

	assert.Equal(t, model.RecordSyncPending, repo.records[matching.ID].BayzatSyncStatus)
	assert.Equal(t, model.RecordSyncFailed, repo.records[other.ID].BayzatSyncStatus)
}

func TestResetExhaustedZeroesRetryCount(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	scheduler := NewRetryScheduler(repo, NewPlanner(repo, enqueuer), 5)

	past := time.Now().Add(-time.Minute)
	exhausted := failedRecord(repo, 1, 10, 5, past)

	batches, err := scheduler.ResetExhausted(context.Background(), model.RetryScope{})
	require.NoError(t, err)
	require.Len(t, batches, 1)

	rec := repo.records[exhausted.ID]
	assert.Equal(t, model.RecordSyncPending, rec.BayzatSyncStatus)
	assert.Equal(t, 0, rec.RetryCount)
	assert.Nil(t, rec.BayzatSyncError)
}
