package bayzat

import (
	"fmt"

	"github.com/spacemudd/clarimount2025-sub000/internal/model"
	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"
)

const (
	EntryTypeCheckIn  = "checkIn"
	EntryTypeCheckOut = "checkOut"

	timestampLayout = "2006-01-02 15:04:05"
)

// AttendanceEntry is one check-in or check-out event in Bayzat's wire
// format.
type AttendanceEntry struct {
	EmpID string `json:"empId"`
	Type  string `json:"type"`
	Time  string `json:"time"`
}

// RecordBatch is the body of one chunk submission.
type RecordBatch struct {
	Records []AttendanceEntry `json:"records"`
}

// ExcludedRecord pairs a record left out of a payload with the
// operator-facing reason. Excluded records were never submitted and
// must not be marked synced.
type ExcludedRecord struct {
	Record model.ImportRecord
	Reason string
}

// BuildRecordBatch transforms a chunk of import records into Bayzat
// entries. empIDs maps internal employee IDs to Bayzat employee IDs.
// Records that cannot produce an entry (no Bayzat employee ID, no
// punch times) are returned as excluded with a reason; only the
// included records are represented in the payload. Returns
// ErrEmptyChunkPayload when nothing was includable.
func BuildRecordBatch(records []model.ImportRecord, empIDs map[int64]string) (RecordBatch, []model.ImportRecord, []ExcludedRecord, error) {
	var (
		batch    RecordBatch
		included []model.ImportRecord
		excluded []ExcludedRecord
	)

	for _, rec := range records {
		if rec.CheckIn == nil && rec.CheckOut == nil {
			excluded = append(excluded, ExcludedRecord{Record: rec, Reason: "No check-in or check-out time to submit"})
			continue
		}
		if rec.EmployeeID == nil {
			excluded = append(excluded, ExcludedRecord{Record: rec, Reason: "No employee resolved for record"})
			continue
		}
		empID, ok := empIDs[*rec.EmployeeID]
		if !ok || empID == "" {
			excluded = append(excluded, ExcludedRecord{Record: rec, Reason: "No Bayzat employee ID for employee"})
			continue
		}

		date := rec.Date.Format("2006-01-02")
		if rec.CheckIn != nil {
			batch.Records = append(batch.Records, AttendanceEntry{
				EmpID: empID,
				Type:  EntryTypeCheckIn,
				Time:  fmt.Sprintf("%s %s", date, *rec.CheckIn),
			})
		}
		if rec.CheckOut != nil {
			batch.Records = append(batch.Records, AttendanceEntry{
				EmpID: empID,
				Type:  EntryTypeCheckOut,
				Time:  fmt.Sprintf("%s %s", date, *rec.CheckOut),
			})
		}
		included = append(included, rec)
	}

	if len(batch.Records) == 0 {
		return batch, nil, excluded, apperrors.ErrEmptyChunkPayload
	}
	return batch, included, excluded, nil
}
