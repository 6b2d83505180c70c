package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"screening-backend/internal/shared/telemetry"
)

// DefaultListLimit bounds the read path.
const DefaultListLimit = 50

// Service appends and reads ledger events.
type Service struct {
	Repo Repo
}

// HashInput returns the sha256 hex digest used to correlate events that
// saw the same input.
func HashInput(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

// Record appends one event. Ledger writes never fail the pipeline; an
// append error is logged and swallowed.
func (s *Service) Record(ctx context.Context, tenantID, jobID, stage, promptVersion string, input []byte, contextPayload, responsePayload json.RawMessage, validationStatus string, errorTags []string) {
	if s == nil || s.Repo == nil {
		return
	}
	ev := Event{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		JobID:            jobID,
		Stage:            stage,
		PromptVersion:    promptVersion,
		InputHash:        HashInput(input),
		Context:          contextPayload,
		Response:         responsePayload,
		ValidationStatus: validationStatus,
		ErrorTags:        errorTags,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Repo.Append(ctx, ev); err != nil {
		telemetry.Warn("ledger append failed", map[string]any{
			"job_id": jobID,
			"stage":  stage,
			"error":  err.Error(),
		})
	}
}

// Recent returns a job's latest events, newest first.
func (s *Service) Recent(ctx context.Context, tenantID, jobID string) ([]Event, error) {
	return s.Repo.ListByJob(ctx, tenantID, jobID, DefaultListLimit)
}
