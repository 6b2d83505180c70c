package jobs

import "time"

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DefaultMaxAttempts bounds how many times a job may be claimed before it
// is terminally failed.
const DefaultMaxAttempts = 3

// Job is one resume scored against one job description.
type Job struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenantId"`
	BatchID          string     `json:"batchId,omitempty"`
	ResumeID         string     `json:"resumeId"`
	JobDescriptionID string     `json:"jobDescriptionId"`
	Status           string     `json:"status"`
	Attempts         int        `json:"attempts"`
	MaxAttempts      int        `json:"maxAttempts"`
	LastStep         string     `json:"lastStep,omitempty"`
	Progress         int        `json:"progress"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	ClaimedBy        string     `json:"claimedBy,omitempty"`
	ClaimedAt        *time.Time `json:"claimedAt,omitempty"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Terminal reports whether the job reached a final state.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
