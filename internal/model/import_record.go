package model

import "time"

// ImportRecord is one parsed attendance row. The raw CSV identifiers are
// kept alongside the resolved references so operators can see why a row
// failed to map. The bayzat_* columns form the sync sub-state owned by
// the sync executor and the retry scheduler.
type ImportRecord struct {
	ID         int64  `json:"id" db:"id"`
	ImportID   int64  `json:"import_id" db:"import_id"`
	EmployeeID *int64 `json:"employee_id,omitempty" db:"employee_id"`
	CompanyID  *int64 `json:"company_id,omitempty" db:"company_id"`

	EmployeeCode string    `json:"employee_code" db:"employee_code"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Department   string    `json:"department" db:"department"`
	Date         time.Time `json:"date" db:"date"`
	Weekday      string    `json:"weekday" db:"weekday"`

	// Times are normalized HH:MM:SS strings; nil means the export held a
	// placeholder or nothing for that column.
	CheckIn  *string `json:"check_in,omitempty" db:"check_in"`
	CheckOut *string `json:"check_out,omitempty" db:"check_out"`
	ClockIn  *string `json:"clock_in,omitempty" db:"clock_in"`
	ClockOut *string `json:"clock_out,omitempty" db:"clock_out"`

	WorkMinutes     *int `json:"work_minutes,omitempty" db:"work_minutes"`
	OvertimeMinutes *int `json:"overtime_minutes,omitempty" db:"overtime_minutes"`
	TotalMinutes    *int `json:"total_minutes,omitempty" db:"total_minutes"`

	Errors  []string `json:"errors,omitempty" db:"errors"`
	IsValid bool     `json:"is_valid" db:"is_valid"`

	BayzatSyncStatus RecordSyncStatus `json:"bayzat_sync_status" db:"bayzat_sync_status"`
	BayzatSyncError  *string          `json:"bayzat_sync_error,omitempty" db:"bayzat_sync_error"`
	RetryCount       int              `json:"retry_count" db:"retry_count"`
	NextRetryAt      *time.Time       `json:"next_retry_at,omitempty" db:"next_retry_at"`
	BayzatSyncedAt   *time.Time       `json:"bayzat_synced_at,omitempty" db:"bayzat_synced_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Syncable reports whether the record may be selected into a batch.
func (r *ImportRecord) Syncable() bool {
	return r.IsValid && r.CompanyID != nil && r.BayzatSyncStatus == RecordSyncPending
}
