package model

import "time"

// Import is one uploaded attendance file and its aggregate processing
// state. The aggregate is mutable while parsing runs and frozen once the
// status reaches completed or failed.
type Import struct {
	ID                  int64        `json:"id" db:"id"`
	Filename            string       `json:"filename" db:"filename"`
	StorageKey          string       `json:"storage_key" db:"storage_key"`
	TeamID              *int64       `json:"team_id,omitempty" db:"team_id"`
	UploadedBy          string       `json:"uploaded_by" db:"uploaded_by"`
	TotalRows           int          `json:"total_rows" db:"total_rows"`
	ProcessedRows       int          `json:"processed_rows" db:"processed_rows"`
	SucceededRows       int          `json:"succeeded_rows" db:"succeeded_rows"`
	FailedRows          int          `json:"failed_rows" db:"failed_rows"`
	Errors              []string     `json:"errors,omitempty" db:"errors"`
	UnmappedDepartments []string     `json:"unmapped_departments,omitempty" db:"unmapped_departments"`
	Status              ImportStatus `json:"status" db:"status"`
	StartedAt           *time.Time   `json:"started_at,omitempty" db:"started_at"`
	CompletedAt         *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt           time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at" db:"updated_at"`
}
