package results

import (
	"encoding/json"
	"time"
)

// ScreeningResult is the persisted outcome of one screening job.
type ScreeningResult struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	JobID          string          `json:"jobId"`
	OverallScore   float64         `json:"overallScore"`
	CategoryScores map[string]int  `json:"categoryScores"`
	Parsed         json.RawMessage `json:"parsed,omitempty"`
	Report         json.RawMessage `json:"report"`
	ReportKey      string          `json:"reportKey,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	ProcessedAt    time.Time       `json:"processedAt"`
}
