package bayzat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spacemudd/clarimount2025-sub000/internal/logger"
	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

// maxErrorBodyBytes caps how much of an error response body is kept in
// the stored sync error.
const maxErrorBodyBytes = 512

// Client submits attendance chunks to the Bayzat API. One client is
// shared across companies; endpoint and key come from each company's
// configuration.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Get(),
	}
}

// SubmitRecords posts one chunk. requestID is a client-generated
// idempotency key: if a worker dies between a successful submission and
// the local status write, the retried chunk carries a fresh key but the
// target can still deduplicate entries by empId and time.
func (c *Client) SubmitRecords(ctx context.Context, endpoint, apiKey string, batch RecordBatch, requestID string) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal record batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("X-Request-Id", requestID)

	c.log.Debug().
		Int("records", len(batch.Records)).
		Str("request_id", requestID).
		Msg("Submitting attendance chunk to Bayzat")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.SyncError{Message: fmt.Sprintf("Request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return classifyResponse(resp)
}

func classifyResponse(resp *http.Response) *apperrors.SyncError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	detail := strings.TrimSpace(string(body))

	se := &apperrors.SyncError{StatusCode: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		se.Message = "Invalid request data"
		if detail != "" {
			se.Message += ": " + detail
		}
	case resp.StatusCode == http.StatusUnauthorized:
		se.Message = "Invalid API key"
	case resp.StatusCode == http.StatusTooManyRequests:
		se.Message = "Rate limit exceeded"
	case resp.StatusCode >= 500:
		se.Message = fmt.Sprintf("Bayzat server error (HTTP %d)", resp.StatusCode)
	default:
		se.Message = fmt.Sprintf("Unexpected response (HTTP %d)", resp.StatusCode)
		if detail != "" {
			se.Message += ": " + detail
		}
	}
	return se
}
