package model

import "time"

// ImportJob is the queue message that asks an import worker to parse one
// uploaded file.
type ImportJob struct {
	ImportID   int64  `json:"import_id"`
	StorageKey string `json:"storage_key"`
}

// SyncJob is the queue message that binds one sync executor run to one
// batch.
type SyncJob struct {
	BatchID   int64 `json:"batch_id"`
	CompanyID int64 `json:"company_id"`
	ImportID  int64 `json:"import_id"`
}

// RetryRequest scopes a manual retry trigger. All fields nil means
// retry everything eligible.
type RetryRequest struct {
	ImportID  *int64 `json:"import_id,omitempty"`
	BatchID   *int64 `json:"batch_id,omitempty"`
	CompanyID *int64 `json:"company_id,omitempty"`
}

// RetryScope narrows record re-selection. Nil fields mean unrestricted.
type RetryScope struct {
	CompanyID *int64
	ImportID  *int64
}

// ImportStatusResponse is what the import screen renders.
type ImportStatusResponse struct {
	ImportID            int64        `json:"import_id"`
	Filename            string       `json:"filename"`
	Status              ImportStatus `json:"status"`
	TotalRows           int          `json:"total_rows"`
	ProcessedRows       int          `json:"processed_rows"`
	SucceededRows       int          `json:"succeeded_rows"`
	FailedRows          int          `json:"failed_rows"`
	Errors              []string     `json:"errors,omitempty"`
	UnmappedDepartments []string     `json:"unmapped_departments,omitempty"`
	StartedAt           *time.Time   `json:"started_at,omitempty"`
	CompletedAt         *time.Time   `json:"completed_at,omitempty"`
}

// BatchStatusResponse is what the batch screen renders.
type BatchStatusResponse struct {
	BatchID         int64       `json:"batch_id"`
	CompanyID       int64       `json:"company_id"`
	ImportID        int64       `json:"import_id"`
	Status          BatchStatus `json:"status"`
	TotalRecords    int         `json:"total_records"`
	SyncedRecords   int         `json:"synced_records"`
	FailedRecords   int         `json:"failed_records"`
	PercentComplete float64     `json:"percent_complete"`
	SuccessRate     float64     `json:"success_rate"`
	ErrorMessage    *string     `json:"error_message,omitempty"`
	StartedAt       *time.Time  `json:"started_at,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
}
