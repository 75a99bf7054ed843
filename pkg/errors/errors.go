package errors

import (
	"errors"
)

var (
	ErrHeaderNotFound       = errors.New("no attendance header row found")
	ErrImportNotFound       = errors.New("import not found")
	ErrBatchNotFound        = errors.New("sync batch not found")
	ErrBayzatConfigMissing  = errors.New("bayzat configuration not found for company")
	ErrBayzatConfigDisabled = errors.New("bayzat sync is disabled for company")
	ErrEmptyChunkPayload    = errors.New("chunk produced no submittable records")
	ErrIllegalTransition    = errors.New("illegal status transition")
)

// SyncError is a failed submission to the Bayzat API. Message is the
// operator-facing text stored on every record of the failed chunk;
// StatusCode is zero for transport-level failures.
type SyncError struct {
	StatusCode int
	Message    string
}

func (e *SyncError) Error() string {
	return e.Message
}

// IsInvalidCredentials reports whether err is a Bayzat 401 rejection.
func IsInvalidCredentials(err error) bool {
	var se *SyncError
	return errors.As(err, &se) && se.StatusCode == 401
}
