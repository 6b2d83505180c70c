package ledger

import (
	"encoding/json"
	"time"
)

// Validation statuses recorded with each event.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
	StatusSkipped = "skipped"
)

// Event is one append-only learning ledger entry. Events capture what a
// pipeline stage saw and produced so prompts and scoring can be audited
// and tuned later.
type Event struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenantId"`
	JobID            string          `json:"jobId"`
	Stage            string          `json:"stage"`
	PromptVersion    string          `json:"promptVersion"`
	InputHash        string          `json:"inputHash"`
	Context          json.RawMessage `json:"context,omitempty"`
	Response         json.RawMessage `json:"response,omitempty"`
	ValidationStatus string          `json:"validationStatus"`
	ErrorTags        []string        `json:"errorTags,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}
