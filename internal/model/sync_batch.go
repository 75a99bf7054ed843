package model

import "time"

// SyncBatch scopes one sync executor run to one company and one import.
// total_records is stamped by the executor from its selection, so
// synced_records + failed_records <= total_records holds throughout.
// A retry never reopens a finished batch; it creates a new one.
type SyncBatch struct {
	ID            int64       `json:"id" db:"id"`
	CompanyID     int64       `json:"company_id" db:"company_id"`
	ImportID      int64       `json:"import_id" db:"import_id"`
	TotalRecords  int         `json:"total_records" db:"total_records"`
	SyncedRecords int         `json:"synced_records" db:"synced_records"`
	FailedRecords int         `json:"failed_records" db:"failed_records"`
	Status        BatchStatus `json:"status" db:"status"`
	ErrorMessage  *string     `json:"error_message,omitempty" db:"error_message"`
	StartedAt     *time.Time  `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// PercentComplete is how much of the batch has been attempted.
func (b *SyncBatch) PercentComplete() float64 {
	if b.TotalRecords == 0 {
		if b.Status == BatchStatusCompleted {
			return 100
		}
		return 0
	}
	return float64(b.SyncedRecords+b.FailedRecords) / float64(b.TotalRecords) * 100
}

// SuccessRate is the share of attempted records that synced.
func (b *SyncBatch) SuccessRate() float64 {
	attempted := b.SyncedRecords + b.FailedRecords
	if attempted == 0 {
		return 0
	}
	return float64(b.SyncedRecords) / float64(attempted) * 100
}
