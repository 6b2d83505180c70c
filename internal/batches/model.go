package batches

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Batch groups the jobs created by one screening request.
type Batch struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenantId"`
	JobDescriptionID string    `json:"jobDescriptionId"`
	Status           string    `json:"status"`
	Total            int       `json:"total"`
	CreatedBy        string    `json:"createdBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// JobCounts summarizes a batch's jobs by status.
type JobCounts struct {
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// BatchDetail is a batch with its job roll-up, returned by the history
// endpoints.
type BatchDetail struct {
	Batch
	Counts JobCounts `json:"jobCounts"`
}
