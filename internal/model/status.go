package model

import (
	"fmt"

	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"
)

// ImportStatus is the lifecycle of one uploaded attendance file.
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

var importTransitions = map[ImportStatus][]ImportStatus{
	ImportStatusPending:    {ImportStatusProcessing, ImportStatusFailed},
	ImportStatusProcessing: {ImportStatusCompleted, ImportStatusFailed},
	ImportStatusCompleted:  {},
	ImportStatusFailed:     {},
}

func (s ImportStatus) CanTransition(to ImportStatus) bool {
	for _, next := range importTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// RecordSyncStatus is the sync sub-state of one attendance row.
// "synced" is terminal; "skipped" marks rows that never resolved a
// company and are permanently ineligible for batching.
type RecordSyncStatus string

const (
	RecordSyncPending RecordSyncStatus = "pending"
	RecordSyncSyncing RecordSyncStatus = "syncing"
	RecordSyncSynced  RecordSyncStatus = "synced"
	RecordSyncFailed  RecordSyncStatus = "failed"
	RecordSyncSkipped RecordSyncStatus = "skipped"
)

var recordSyncTransitions = map[RecordSyncStatus][]RecordSyncStatus{
	RecordSyncPending: {RecordSyncSyncing},
	RecordSyncSyncing: {RecordSyncSynced, RecordSyncFailed},
	RecordSyncSynced:  {},
	RecordSyncFailed:  {RecordSyncPending},
	RecordSyncSkipped: {},
}

func (s RecordSyncStatus) CanTransition(to RecordSyncStatus) bool {
	for _, next := range recordSyncTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s RecordSyncStatus) Terminal() bool {
	return len(recordSyncTransitions[s]) == 0
}

// BatchStatus is the lifecycle of one company-scoped sync batch.
// "completed" means the attempt finished, not that every record
// succeeded; a completed batch can still hold failed records.
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

var batchTransitions = map[BatchStatus][]BatchStatus{
	BatchStatusPending:    {BatchStatusProcessing},
	BatchStatusProcessing: {BatchStatusCompleted, BatchStatusFailed},
	BatchStatusCompleted:  {},
	BatchStatusFailed:     {},
}

func (s BatchStatus) CanTransition(to BatchStatus) bool {
	for _, next := range batchTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrIllegalTransition when from cannot move to to.
func CheckTransition[T interface{ CanTransition(T) bool }](from, to T) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %v -> %v", apperrors.ErrIllegalTransition, from, to)
	}
	return nil
}

// RecordSyncSources lists the statuses allowed to move to target. The
// repository builds its guarded-update WHERE clauses from this, so the
// transition table stays the single authority on legal moves.
func RecordSyncSources(to RecordSyncStatus) []RecordSyncStatus {
	all := []RecordSyncStatus{RecordSyncPending, RecordSyncSyncing, RecordSyncSynced, RecordSyncFailed, RecordSyncSkipped}
	var sources []RecordSyncStatus
	for _, from := range all {
		if from.CanTransition(to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// BatchStatusSources is RecordSyncSources for batch statuses.
func BatchStatusSources(to BatchStatus) []BatchStatus {
	all := []BatchStatus{BatchStatusPending, BatchStatusProcessing, BatchStatusCompleted, BatchStatusFailed}
	var sources []BatchStatus
	for _, from := range all {
		if from.CanTransition(to) {
			sources = append(sources, from)
		}
	}
	return sources
}
