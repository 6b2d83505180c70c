package jobs

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the job does not exist.
var ErrNotFound = errors.New("job not found")

// ErrNoneAvailable indicates no queued job was available to claim.
var ErrNoneAvailable = errors.New("no queued job available")

// Repo defines persistence operations for screening jobs.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	GetForTenant(ctx context.Context, tenantID, jobID string) (Job, error)
	ListByBatch(ctx context.Context, batchID string) ([]Job, error)

	// Claim atomically moves the oldest queued job to running for the
	// given worker. Exactly one concurrent caller wins a given job.
	Claim(ctx context.Context, workerID string) (Job, error)

	// MarkProgress records the last finished step and progress percentage.
	MarkProgress(ctx context.Context, jobID, step string, progress int) error

	// Complete marks a job completed.
	Complete(ctx context.Context, jobID string) error

	// Fail records the error and requeues the job while attempts remain,
	// otherwise marks it terminally failed. Returns the resulting status.
	Fail(ctx context.Context, jobID, message string) (string, error)

	// ReleaseStale requeues running jobs claimed before the cutoff, failing
	// those that are out of attempts. Returns the number of rows touched.
	ReleaseStale(ctx context.Context, cutoff time.Time) (int, error)
}
