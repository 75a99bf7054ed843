package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/model"
)

// Repository is the persistence surface of the pipeline. Sync sub-state
// updates are guarded by the current status in the WHERE clause, so a
// concurrent executor can never revert a terminal "synced" record.
type Repository interface {
	// Imports
	CreateImport(ctx context.Context, imp *model.Import) error
	GetImport(ctx context.Context, id int64) (*model.Import, error)
	StartImport(ctx context.Context, id int64, at time.Time) error
	FinalizeImport(ctx context.Context, imp *model.Import) error

	// Import records
	InsertImportRecords(ctx context.Context, records []*model.ImportRecord) error
	ListImportRecords(ctx context.Context, importID int64) ([]model.ImportRecord, error)
	ListValidRecords(ctx context.Context, importID int64) ([]model.ImportRecord, error)
	SelectPendingRecords(ctx context.Context, companyID, importID int64) ([]model.ImportRecord, error)
	MarkRecordsSyncing(ctx context.Context, ids []int64) error
	MarkRecordsSynced(ctx context.Context, ids []int64, at time.Time) error
	MarkRecordsFailed(ctx context.Context, ids []int64, message string, nextRetryAt time.Time) error
	SelectRetryableRecords(ctx context.Context, scope model.RetryScope, ceiling int, now time.Time) ([]model.ImportRecord, error)
	ResetRecordsForRetry(ctx context.Context, ids []int64) error
	ListExhaustedRecords(ctx context.Context, scope model.RetryScope, ceiling int) ([]model.ImportRecord, error)
	ResetExhaustedRecords(ctx context.Context, ids []int64) error

	// Sync batches
	CreateSyncBatch(ctx context.Context, batch *model.SyncBatch) error
	GetSyncBatch(ctx context.Context, id int64) (*model.SyncBatch, error)
	MarkBatchProcessing(ctx context.Context, id int64, at time.Time) error
	SetBatchTotal(ctx context.Context, id int64, total int) error
	AddBatchCounts(ctx context.Context, id int64, synced, failed int) error
	CompleteBatch(ctx context.Context, id int64, at time.Time) error
	FailBatch(ctx context.Context, id int64, message string, at time.Time) error

	// Directory lookups
	EmployeesByCode(ctx context.Context) (map[string]*model.Employee, error)
	DepartmentCompanies(ctx context.Context) (map[string]int64, error)
	BayzatEmployeeIDs(ctx context.Context, companyID int64) (map[int64]string, error)

	// Bayzat configuration (read-only to the pipeline except last_sync_at)
	GetBayzatConfig(ctx context.Context, companyID int64) (*model.BayzatCompanyConfig, error)
	UpdateBayzatLastSync(ctx context.Context, companyID int64, at time.Time) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateImport(ctx context.Context, imp *model.Import) error {
	query := `INSERT INTO imports
		(filename, storage_key, team_id, uploaded_by, status, errors, unmapped_departments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	res, err := r.db.ExecContext(ctx, query,
		imp.Filename, imp.StorageKey, imp.TeamID, imp.UploadedBy,
		model.ImportStatusPending, jsonStrings(imp.Errors), jsonStrings(imp.UnmappedDepartments))
	if err != nil {
		return fmt.Errorf("failed to create import: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	imp.ID = id
	imp.Status = model.ImportStatusPending
	return nil
}

func (r *repository) GetImport(ctx context.Context, id int64) (*model.Import, error) {
	query := `SELECT id, filename, storage_key, team_id, uploaded_by,
		total_rows, processed_rows, succeeded_rows, failed_rows,
		errors, unmapped_departments, status, started_at, completed_at, created_at, updated_at
		FROM imports WHERE id = ?`

	var (
		imp          model.Import
		teamID       sql.NullInt64
		errsJSON     sql.NullString
		unmappedJSON sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&imp.ID, &imp.Filename, &imp.StorageKey, &teamID, &imp.UploadedBy,
		&imp.TotalRows, &imp.ProcessedRows, &imp.SucceededRows, &imp.FailedRows,
		&errsJSON, &unmappedJSON, &imp.Status, &startedAt, &completedAt,
		&imp.CreatedAt, &imp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	imp.TeamID = nullInt(teamID)
	imp.Errors = parseStrings(errsJSON)
	imp.UnmappedDepartments = parseStrings(unmappedJSON)
	imp.StartedAt = nullTime(startedAt)
	imp.CompletedAt = nullTime(completedAt)
	return &imp, nil
}

func (r *repository) StartImport(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE imports SET status = ?, started_at = ?, updated_at = NOW()
		WHERE id = ? AND status = ?`
	_, err := r.db.ExecContext(ctx, query, model.ImportStatusProcessing, at, id, model.ImportStatusPending)
	return err
}

// FinalizeImport writes the aggregate's final counters, deduplicated
// lists and terminal status in one statement. Only a processing import
// can be finalized; completed/failed aggregates are immutable.
func (r *repository) FinalizeImport(ctx context.Context, imp *model.Import) error {
	query := `UPDATE imports SET
		total_rows = ?, processed_rows = ?, succeeded_rows = ?, failed_rows = ?,
		errors = ?, unmapped_departments = ?, status = ?, completed_at = ?, updated_at = NOW()
		WHERE id = ? AND status = ?`

	_, err := r.db.ExecContext(ctx, query,
		imp.TotalRows, imp.ProcessedRows, imp.SucceededRows, imp.FailedRows,
		jsonStrings(imp.Errors), jsonStrings(imp.UnmappedDepartments),
		imp.Status, imp.CompletedAt, imp.ID, model.ImportStatusProcessing)
	return err
}

const recordColumns = `id, import_id, employee_id, company_id,
	employee_code, first_name, department, date, weekday,
	check_in, check_out, clock_in, clock_out,
	work_minutes, overtime_minutes, total_minutes,
	errors, is_valid,
	bayzat_sync_status, bayzat_sync_error, retry_count, next_retry_at, bayzat_synced_at,
	created_at, updated_at`

func (r *repository) InsertImportRecords(ctx context.Context, records []*model.ImportRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO import_records
		(import_id, employee_id, company_id, employee_code, first_name, department,
		 date, weekday, check_in, check_out, clock_in, clock_out,
		 work_minutes, overtime_minutes, total_minutes, errors, is_valid,
		 bayzat_sync_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		res, err := stmt.ExecContext(ctx,
			rec.ImportID, rec.EmployeeID, rec.CompanyID, rec.EmployeeCode, rec.FirstName, rec.Department,
			dateArg(rec.Date), rec.Weekday, rec.CheckIn, rec.CheckOut, rec.ClockIn, rec.ClockOut,
			rec.WorkMinutes, rec.OvertimeMinutes, rec.TotalMinutes, jsonStrings(rec.Errors), rec.IsValid,
			rec.BayzatSyncStatus)
		if err != nil {
			return fmt.Errorf("failed to insert import record: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			rec.ID = id
		}
	}

	return tx.Commit()
}

func (r *repository) ListImportRecords(ctx context.Context, importID int64) ([]model.ImportRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM import_records WHERE import_id = ? ORDER BY id`, recordColumns)
	return r.queryRecords(ctx, query, importID)
}

func (r *repository) ListValidRecords(ctx context.Context, importID int64) ([]model.ImportRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM import_records
		WHERE import_id = ? AND is_valid = TRUE AND company_id IS NOT NULL ORDER BY id`, recordColumns)
	return r.queryRecords(ctx, query, importID)
}

func (r *repository) SelectPendingRecords(ctx context.Context, companyID, importID int64) ([]model.ImportRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM import_records
		WHERE company_id = ? AND import_id = ? AND bayzat_sync_status = ? AND is_valid = TRUE
		ORDER BY id`, recordColumns)
	return r.queryRecords(ctx, query, companyID, importID, model.RecordSyncPending)
}

func (r *repository) MarkRecordsSyncing(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	guard, guardArgs := recordGuard(model.RecordSyncSyncing)
	query := fmt.Sprintf(`UPDATE import_records SET bayzat_sync_status = ?, updated_at = NOW()
		WHERE id IN (%s) AND %s`, placeholders(len(ids)), guard)
	args := append([]interface{}{model.RecordSyncSyncing}, idArgs(ids)...)
	args = append(args, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) MarkRecordsSynced(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	guard, guardArgs := recordGuard(model.RecordSyncSynced)
	query := fmt.Sprintf(`UPDATE import_records
		SET bayzat_sync_status = ?, bayzat_sync_error = NULL, bayzat_synced_at = ?, updated_at = NOW()
		WHERE id IN (%s) AND %s`, placeholders(len(ids)), guard)
	args := append([]interface{}{model.RecordSyncSynced, at}, idArgs(ids)...)
	args = append(args, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) MarkRecordsFailed(ctx context.Context, ids []int64, message string, nextRetryAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	guard, guardArgs := recordGuard(model.RecordSyncFailed)
	query := fmt.Sprintf(`UPDATE import_records
		SET bayzat_sync_status = ?, bayzat_sync_error = ?, retry_count = retry_count + 1,
		    next_retry_at = ?, updated_at = NOW()
		WHERE id IN (%s) AND %s`, placeholders(len(ids)), guard)
	args := append([]interface{}{model.RecordSyncFailed, message, nextRetryAt}, idArgs(ids)...)
	args = append(args, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) SelectRetryableRecords(ctx context.Context, scope model.RetryScope, ceiling int, now time.Time) ([]model.ImportRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM import_records
		WHERE bayzat_sync_status = ? AND retry_count < ?
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)`, recordColumns)
	args := []interface{}{model.RecordSyncFailed, ceiling, now}
	query, args = applyScope(query, args, scope)
	query += " ORDER BY id"
	return r.queryRecords(ctx, query, args...)
}

func (r *repository) ResetRecordsForRetry(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	guard, guardArgs := recordGuard(model.RecordSyncPending)
	query := fmt.Sprintf(`UPDATE import_records
		SET bayzat_sync_status = ?, bayzat_sync_error = NULL, next_retry_at = NULL, updated_at = NOW()
		WHERE id IN (%s) AND %s`, placeholders(len(ids)), guard)
	args := append([]interface{}{model.RecordSyncPending}, idArgs(ids)...)
	args = append(args, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) ListExhaustedRecords(ctx context.Context, scope model.RetryScope, ceiling int) ([]model.ImportRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM import_records
		WHERE bayzat_sync_status = ? AND retry_count >= ?`, recordColumns)
	args := []interface{}{model.RecordSyncFailed, ceiling}
	query, args = applyScope(query, args, scope)
	query += " ORDER BY id"
	return r.queryRecords(ctx, query, args...)
}

// ResetExhaustedRecords is the operator escape hatch: unlike
// ResetRecordsForRetry it also zeroes the retry counter.
func (r *repository) ResetExhaustedRecords(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	guard, guardArgs := recordGuard(model.RecordSyncPending)
	query := fmt.Sprintf(`UPDATE import_records
		SET bayzat_sync_status = ?, bayzat_sync_error = NULL, next_retry_at = NULL,
		    retry_count = 0, updated_at = NOW()
		WHERE id IN (%s) AND %s`, placeholders(len(ids)), guard)
	args := append([]interface{}{model.RecordSyncPending}, idArgs(ids)...)
	args = append(args, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) CreateSyncBatch(ctx context.Context, batch *model.SyncBatch) error {
	query := `INSERT INTO sync_batches
		(company_id, import_id, total_records, synced_records, failed_records, status, created_at)
		VALUES (?, ?, ?, 0, 0, ?, NOW())`

	res, err := r.db.ExecContext(ctx, query,
		batch.CompanyID, batch.ImportID, batch.TotalRecords, model.BatchStatusPending)
	if err != nil {
		return fmt.Errorf("failed to create sync batch: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	batch.ID = id
	batch.Status = model.BatchStatusPending
	return nil
}

func (r *repository) GetSyncBatch(ctx context.Context, id int64) (*model.SyncBatch, error) {
	query := `SELECT id, company_id, import_id, total_records, synced_records, failed_records,
		status, error_message, started_at, completed_at, created_at
		FROM sync_batches WHERE id = ?`

	var (
		batch       model.SyncBatch
		errMsg      sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&batch.ID, &batch.CompanyID, &batch.ImportID,
		&batch.TotalRecords, &batch.SyncedRecords, &batch.FailedRecords,
		&batch.Status, &errMsg, &startedAt, &completedAt, &batch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	batch.ErrorMessage = nullString(errMsg)
	batch.StartedAt = nullTime(startedAt)
	batch.CompletedAt = nullTime(completedAt)
	return &batch, nil
}

func (r *repository) MarkBatchProcessing(ctx context.Context, id int64, at time.Time) error {
	guard, guardArgs := batchGuard(model.BatchStatusProcessing)
	query := fmt.Sprintf(`UPDATE sync_batches SET status = ?, started_at = ?
		WHERE id = ? AND %s`, guard)
	args := append([]interface{}{model.BatchStatusProcessing, at, id}, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) SetBatchTotal(ctx context.Context, id int64, total int) error {
	query := `UPDATE sync_batches SET total_records = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, total, id)
	return err
}

func (r *repository) AddBatchCounts(ctx context.Context, id int64, synced, failed int) error {
	query := `UPDATE sync_batches
		SET synced_records = synced_records + ?, failed_records = failed_records + ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, synced, failed, id)
	return err
}

func (r *repository) CompleteBatch(ctx context.Context, id int64, at time.Time) error {
	guard, guardArgs := batchGuard(model.BatchStatusCompleted)
	query := fmt.Sprintf(`UPDATE sync_batches SET status = ?, completed_at = ?
		WHERE id = ? AND %s`, guard)
	args := append([]interface{}{model.BatchStatusCompleted, at, id}, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) FailBatch(ctx context.Context, id int64, message string, at time.Time) error {
	guard, guardArgs := batchGuard(model.BatchStatusFailed)
	query := fmt.Sprintf(`UPDATE sync_batches SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ? AND %s`, guard)
	args := append([]interface{}{model.BatchStatusFailed, message, at, id}, guardArgs...)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) EmployeesByCode(ctx context.Context) (map[string]*model.Employee, error) {
	query := `SELECT id, company_id, code, first_name, last_name, bayzat_employee_id, created_at
		FROM employees`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*model.Employee)
	for rows.Next() {
		var emp model.Employee
		if err := rows.Scan(&emp.ID, &emp.CompanyID, &emp.Code, &emp.FirstName,
			&emp.LastName, &emp.BayzatEmployeeID, &emp.CreatedAt); err != nil {
			return nil, err
		}
		out[emp.Code] = &emp
	}
	return out, rows.Err()
}

func (r *repository) DepartmentCompanies(ctx context.Context) (map[string]int64, error) {
	query := `SELECT label, company_id FROM department_mappings`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			label     string
			companyID int64
		)
		if err := rows.Scan(&label, &companyID); err != nil {
			return nil, err
		}
		out[label] = companyID
	}
	return out, rows.Err()
}

// BayzatEmployeeIDs maps internal employee IDs to the identifiers the
// Bayzat API knows them by, for one company.
func (r *repository) BayzatEmployeeIDs(ctx context.Context, companyID int64) (map[int64]string, error) {
	query := `SELECT id, bayzat_employee_id FROM employees
		WHERE company_id = ? AND bayzat_employee_id <> ''`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var (
			id       int64
			bayzatID string
		)
		if err := rows.Scan(&id, &bayzatID); err != nil {
			return nil, err
		}
		out[id] = bayzatID
	}
	return out, rows.Err()
}

func (r *repository) GetBayzatConfig(ctx context.Context, companyID int64) (*model.BayzatCompanyConfig, error) {
	query := `SELECT id, company_id, api_key_encrypted, endpoint, enabled, sync_frequency,
		last_sync_at, settings, created_at, updated_at
		FROM bayzat_configs WHERE company_id = ?`

	var (
		cfg          model.BayzatCompanyConfig
		lastSyncAt   sql.NullTime
		settingsJSON sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, companyID).Scan(
		&cfg.ID, &cfg.CompanyID, &cfg.APIKeyEncrypted, &cfg.Endpoint, &cfg.Enabled,
		&cfg.SyncFrequency, &lastSyncAt, &settingsJSON, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cfg.LastSyncAt = nullTime(lastSyncAt)
	if settingsJSON.Valid && settingsJSON.String != "" {
		if err := json.Unmarshal([]byte(settingsJSON.String), &cfg.Settings); err != nil {
			return nil, fmt.Errorf("invalid bayzat settings for company %d: %w", companyID, err)
		}
	}
	return &cfg, nil
}

func (r *repository) UpdateBayzatLastSync(ctx context.Context, companyID int64, at time.Time) error {
	query := `UPDATE bayzat_configs SET last_sync_at = ?, updated_at = NOW() WHERE company_id = ?`
	_, err := r.db.ExecContext(ctx, query, at, companyID)
	return err
}

func (r *repository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]model.ImportRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ImportRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (*model.ImportRecord, error) {
	var (
		rec                                  model.ImportRecord
		employeeID, companyID                sql.NullInt64
		date                                 sql.NullTime
		checkIn, checkOut, clockIn, clockOut sql.NullString
		workMin, otMin, totalMin             sql.NullInt64
		errsJSON, syncErr                    sql.NullString
		nextRetryAt, syncedAt                sql.NullTime
	)

	err := rows.Scan(
		&rec.ID, &rec.ImportID, &employeeID, &companyID,
		&rec.EmployeeCode, &rec.FirstName, &rec.Department, &date, &rec.Weekday,
		&checkIn, &checkOut, &clockIn, &clockOut,
		&workMin, &otMin, &totalMin,
		&errsJSON, &rec.IsValid,
		&rec.BayzatSyncStatus, &syncErr, &rec.RetryCount, &nextRetryAt, &syncedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.EmployeeID = nullInt(employeeID)
	rec.CompanyID = nullInt(companyID)
	if date.Valid {
		rec.Date = date.Time
	}
	rec.CheckIn = nullString(checkIn)
	rec.CheckOut = nullString(checkOut)
	rec.ClockIn = nullString(clockIn)
	rec.ClockOut = nullString(clockOut)
	rec.WorkMinutes = nullIntVal(workMin)
	rec.OvertimeMinutes = nullIntVal(otMin)
	rec.TotalMinutes = nullIntVal(totalMin)
	rec.Errors = parseStrings(errsJSON)
	rec.BayzatSyncError = nullString(syncErr)
	rec.NextRetryAt = nullTime(nextRetryAt)
	rec.BayzatSyncedAt = nullTime(syncedAt)
	return &rec, nil
}

func applyScope(query string, args []interface{}, scope model.RetryScope) (string, []interface{}) {
	if scope.CompanyID != nil {
		query += " AND company_id = ?"
		args = append(args, *scope.CompanyID)
	}
	if scope.ImportID != nil {
		query += " AND import_id = ?"
		args = append(args, *scope.ImportID)
	}
	return query, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// recordGuard builds the status guard for a record update from the
// transition table: only statuses that may legally move to target pass.
func recordGuard(to model.RecordSyncStatus) (string, []interface{}) {
	sources := model.RecordSyncSources(to)
	args := make([]interface{}, len(sources))
	for i, s := range sources {
		args[i] = s
	}
	return fmt.Sprintf("bayzat_sync_status IN (%s)", placeholders(len(sources))), args
}

// batchGuard is recordGuard for sync batch updates.
func batchGuard(to model.BatchStatus) (string, []interface{}) {
	sources := model.BatchStatusSources(to)
	args := make([]interface{}, len(sources))
	for i, s := range sources {
		args[i] = s
	}
	return fmt.Sprintf("status IN (%s)", placeholders(len(sources))), args
}

func idArgs(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func jsonStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func parseStrings(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil
	}
	return out
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullIntVal(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// dateArg maps a zero time (row had an unparsable date) to SQL NULL.
func dateArg(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
