package bayzat

import (
	"context"
	"time"

	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"

	"github.com/google/uuid"
)

type ProbeStatus string

const (
	ProbeOK                 ProbeStatus = "ok"
	ProbeInvalidCredentials ProbeStatus = "invalid_credentials"
	ProbeError              ProbeStatus = "error"
)

type ProbeResult struct {
	Status  ProbeStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

// TestConnection sends a minimal one-entry payload through the real
// auth scheme and reports how the endpoint answered. It never touches
// import records or batches.
func (c *Client) TestConnection(ctx context.Context, endpoint, apiKey string) ProbeResult {
	batch := RecordBatch{Records: []AttendanceEntry{{
		EmpID: "connectivity-test",
		Type:  EntryTypeCheckIn,
		Time:  time.Now().Format(timestampLayout),
	}}}

	err := c.SubmitRecords(ctx, endpoint, apiKey, batch, uuid.NewString())
	switch {
	case err == nil:
		return ProbeResult{Status: ProbeOK}
	case apperrors.IsInvalidCredentials(err):
		return ProbeResult{Status: ProbeInvalidCredentials, Message: err.Error()}
	default:
		return ProbeResult{Status: ProbeError, Message: err.Error()}
	}
}
