package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/db"
	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	"github.com/spacemudd/clarimount2025-sub000/internal/storage"

	"github.com/rs/zerolog"
)

// Service is the import parser: it downloads one uploaded export, finds
// the header row, validates every data row against the employee and
// department directories, and persists one ImportRecord per row.
//
// Row-level violations are absorbed into the record; only header
// discovery failures and infrastructure errors fail the whole import.
// Records inserted before such a failure are kept.
type Service struct {
	repo        db.Repository
	store       storage.Storage
	insertBatch int
	log         zerolog.Logger
}

func NewService(repo db.Repository, store storage.Storage, insertBatchSize int) *Service {
	if insertBatchSize <= 0 {
		insertBatchSize = 500
	}
	return &Service{
		repo:        repo,
		store:       store,
		insertBatch: insertBatchSize,
		log:         logger.Get(),
	}
}

func (s *Service) ProcessImport(ctx context.Context, job model.ImportJob) error {
	log := s.log.With().Int64("import_id", job.ImportID).Logger()

	imp, err := s.repo.GetImport(ctx, job.ImportID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load import")
		return err
	}

	startedAt := time.Now()
	if err := s.repo.StartImport(ctx, imp.ID, startedAt); err != nil {
		log.Error().Err(err).Msg("Failed to mark import processing")
		return err
	}
	imp.Status = model.ImportStatusProcessing
	imp.StartedAt = &startedAt

	if err := s.run(ctx, imp, job); err != nil {
		log.Error().Err(err).Msg("Import failed")
		return s.failImport(ctx, imp, err)
	}

	log.Info().
		Int("total", imp.TotalRows).
		Int("valid", imp.SucceededRows).
		Int("invalid", imp.FailedRows).
		Msg("Import completed")
	return nil
}

func (s *Service) run(ctx context.Context, imp *model.Import, job model.ImportJob) error {
	employees, err := s.repo.EmployeesByCode(ctx)
	if err != nil {
		return fmt.Errorf("failed to load employee directory: %w", err)
	}
	departments, err := s.repo.DepartmentCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to load department mappings: %w", err)
	}

	reader, err := s.store.Download(ctx, job.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to download upload %s: %w", job.StorageKey, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	rows, err := StrategyForFilename(imp.Filename).Rows(ctx, data)
	if err != nil {
		return err
	}

	columns, dataStart, err := DiscoverHeader(rows)
	if err != nil {
		return err
	}

	errorSet := newStringSet()
	unmappedSet := newStringSet()
	var pending []*model.ImportRecord

	for _, cells := range rows[dataStart:] {
		if blankRow(cells) {
			continue
		}

		record := s.buildRecord(imp.ID, cells, columns, employees, departments, unmappedSet)
		for _, msg := range record.Errors {
			errorSet.Add(msg)
		}

		imp.TotalRows++
		if record.IsValid {
			imp.SucceededRows++
		} else {
			imp.FailedRows++
		}

		pending = append(pending, record)
		if len(pending) >= s.insertBatch {
			if err := s.repo.InsertImportRecords(ctx, pending); err != nil {
				imp.ProcessedRows = imp.TotalRows - len(pending)
				imp.Errors = errorSet.Values()
				imp.UnmappedDepartments = unmappedSet.Values()
				return fmt.Errorf("failed to store import records: %w", err)
			}
			imp.ProcessedRows = imp.TotalRows
			pending = pending[:0]
		}
	}

	if err := s.repo.InsertImportRecords(ctx, pending); err != nil {
		imp.ProcessedRows = imp.TotalRows - len(pending)
		imp.Errors = errorSet.Values()
		imp.UnmappedDepartments = unmappedSet.Values()
		return fmt.Errorf("failed to store import records: %w", err)
	}
	imp.ProcessedRows = imp.TotalRows

	completedAt := time.Now()
	imp.Status = model.ImportStatusCompleted
	imp.CompletedAt = &completedAt
	imp.Errors = errorSet.Values()
	imp.UnmappedDepartments = unmappedSet.Values()
	return s.repo.FinalizeImport(ctx, imp)
}

// buildRecord validates one data row. Every violation lands in the
// record's error list; a row with an unresolved company is skipped for
// sync but still stored for operator visibility.
func (s *Service) buildRecord(
	importID int64,
	cells []string,
	columns map[string]int,
	employees map[string]*model.Employee,
	departments map[string]int64,
	unmapped *stringSet,
) *model.ImportRecord {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	record := &model.ImportRecord{
		ImportID:     importID,
		EmployeeCode: cell("employee id"),
		FirstName:    cell("first name"),
		Department:   cell("department"),
		Weekday:      cell("weekday"),
	}

	var errs []string

	if date, ok := parseDate(cell("date")); ok {
		record.Date = date
	} else {
		errs = append(errs, fmt.Sprintf("Invalid date: '%s'", cell("date")))
	}

	record.CheckIn = parseClock(cell("check in"))
	record.CheckOut = parseClock(cell("check out"))
	record.ClockIn = parseClock(cell("clock in"))
	record.ClockOut = parseClock(cell("clock out"))
	if record.CheckIn == nil && record.CheckOut == nil {
		errs = append(errs, "Missing both check-in and check-out times")
	}

	record.WorkMinutes = parseDurationMinutes(cell("work time"))
	record.OvertimeMinutes = firstDuration(cell("ot time"), cell("overtime"))
	record.TotalMinutes = firstDuration(cell("total time"), cell("total"))

	if record.EmployeeCode == "" {
		errs = append(errs, "Missing employee ID")
	} else if emp, ok := employees[record.EmployeeCode]; ok {
		record.EmployeeID = &emp.ID
	} else {
		errs = append(errs, fmt.Sprintf("Employee not found: %s", record.EmployeeCode))
	}

	if record.Department != "" {
		if companyID, ok := departments[record.Department]; ok {
			record.CompanyID = &companyID
		} else {
			errs = append(errs, fmt.Sprintf("Department not mapped: %s", record.Department))
			unmapped.Add(record.Department)
		}
	} else {
		errs = append(errs, "Missing department")
	}

	record.Errors = errs
	record.IsValid = len(errs) == 0 && record.EmployeeID != nil && record.CompanyID != nil

	if record.CompanyID == nil {
		record.BayzatSyncStatus = model.RecordSyncSkipped
	} else {
		record.BayzatSyncStatus = model.RecordSyncPending
	}

	return record
}

// failImport finalizes the aggregate as failed, appending the fatal
// message. Already-inserted records survive.
func (s *Service) failImport(ctx context.Context, imp *model.Import, cause error) error {
	completedAt := time.Now()
	imp.Status = model.ImportStatusFailed
	imp.CompletedAt = &completedAt
	imp.Errors = appendUnique(imp.Errors, cause.Error())

	if err := s.repo.FinalizeImport(ctx, imp); err != nil {
		s.log.Error().Err(err).Int64("import_id", imp.ID).Msg("Failed to finalize failed import")
		return err
	}
	return cause
}

func firstDuration(values ...string) *int {
	for _, v := range values {
		if d := parseDurationMinutes(v); d != nil {
			return d
		}
	}
	return nil
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// stringSet is an insertion-ordered deduplicated string collection, used
// for the import's error and unmapped-department lists.
type stringSet struct {
	seen   map[string]struct{}
	values []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) Add(value string) {
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.values = append(s.values, value)
}

func (s *stringSet) Values() []string {
	return s.values
}
