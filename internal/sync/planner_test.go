package sync

import (
	"context"
	"testing"

	"github.com/spacemudd/clarimount2025-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRecord(importID, companyID int64) model.ImportRecord {
	return model.ImportRecord{
		ImportID:         importID,
		CompanyID:        &companyID,
		IsValid:          true,
		BayzatSyncStatus: model.RecordSyncPending,
	}
}

func TestPlanImportGroupsByCompany(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	planner := NewPlanner(repo, enqueuer)

	repo.addRecord(pendingRecord(1, 10))
	repo.addRecord(pendingRecord(1, 10))
	repo.addRecord(pendingRecord(1, 20))
	// skipped record never resolved a company
	repo.addRecord(model.ImportRecord{ImportID: 1, BayzatSyncStatus: model.RecordSyncSkipped})

	batches, err := planner.PlanImport(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	assert.Equal(t, int64(10), batches[0].CompanyID)
	assert.Equal(t, int64(20), batches[1].CompanyID)
	for _, batch := range batches {
		assert.Equal(t, int64(1), batch.ImportID)
	}

	require.Len(t, enqueuer.jobs, 2)
	assert.Equal(t, batches[0].ID, enqueuer.jobs[0].BatchID)
	assert.Equal(t, batches[1].ID, enqueuer.jobs[1].BatchID)
}

func TestPlanImportNoValidRecords(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	planner := NewPlanner(repo, enqueuer)

	repo.addRecord(model.ImportRecord{ImportID: 1, BayzatSyncStatus: model.RecordSyncSkipped})

	batches, err := planner.PlanImport(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.Empty(t, enqueuer.jobs)
}

func TestPlanRecordsSplitsRetrySelectionPerImport(t *testing.T) {
	repo := newFakeRepo()
	enqueuer := &fakeEnqueuer{}
	planner := NewPlanner(repo, enqueuer)

	companyID := int64(10)
	records := []model.ImportRecord{
		{ID: 1, ImportID: 1, CompanyID: &companyID},
		{ID: 2, ImportID: 2, CompanyID: &companyID},
	}

	batches, err := planner.PlanRecords(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, int64(1), batches[0].ImportID)
	assert.Equal(t, int64(2), batches[1].ImportID)
}
