package jobs

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, tenant_id, batch_id, resume_id, job_description_id, status, attempts, max_attempts,
       last_step, progress, error_message, claimed_by, claimed_at, started_at, finished_at, created_at, updated_at`

// Create inserts a new queued job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, tenant_id, batch_id, resume_id, job_description_id, status, attempts, max_attempts, last_step, progress, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.TenantID,
		nullString(job.BatchID),
		job.ResumeID,
		job.JobDescriptionID,
		job.Status,
		job.Attempts,
		job.MaxAttempts,
		job.LastStep,
		job.Progress,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID returns a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	const query = `
SELECT ` + jobColumns + `
FROM jobs
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, jobID))
}

// GetForTenant returns a job scoped to a tenant.
func (r *PGRepo) GetForTenant(ctx context.Context, tenantID, jobID string) (Job, error) {
	const query = `
SELECT ` + jobColumns + `
FROM jobs
WHERE id = $1 AND tenant_id = $2
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, jobID, tenantID))
}

// ListByBatch returns all jobs of a batch, oldest first.
func (r *PGRepo) ListByBatch(ctx context.Context, batchID string) ([]Job, error) {
	const query = `
SELECT ` + jobColumns + `
FROM jobs
WHERE batch_id = $1
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Claim atomically takes the oldest queued job. SKIP LOCKED guarantees two
// workers never select the same row.
func (r *PGRepo) Claim(ctx context.Context, workerID string) (Job, error) {
	const query = `
UPDATE jobs
SET status = $1,
    claimed_by = $2,
    claimed_at = now(),
    started_at = COALESCE(started_at, now()),
    updated_at = now()
WHERE id = (
    SELECT id
    FROM jobs
    WHERE status = $3
    ORDER BY created_at
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING ` + jobColumns
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, StatusRunning, workerID, StatusQueued))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNoneAvailable
		}
		return Job{}, err
	}
	return job, nil
}

// MarkProgress records the last completed step as a checkpoint.
func (r *PGRepo) MarkProgress(ctx context.Context, jobID, step string, progress int) error {
	const query = `
UPDATE jobs
SET last_step = $1, progress = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, step, progress, jobID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete marks a job completed.
func (r *PGRepo) Complete(ctx context.Context, jobID string) error {
	const query = `
UPDATE jobs
SET status = $1, progress = 100, error_message = NULL, finished_at = now(), updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, StatusCompleted, jobID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Fail consumes an attempt. The job goes back to queued while attempts
// remain, otherwise it is terminally failed.
func (r *PGRepo) Fail(ctx context.Context, jobID, message string) (string, error) {
	const query = `
UPDATE jobs
SET attempts = attempts + 1,
    error_message = $1,
    status = CASE WHEN attempts + 1 >= max_attempts THEN $2 ELSE $3 END,
    finished_at = CASE WHEN attempts + 1 >= max_attempts THEN now() ELSE finished_at END,
    claimed_by = NULL,
    claimed_at = NULL,
    updated_at = now()
WHERE id = $4
RETURNING status`
	var status string
	err := r.DB.QueryRowContext(ctx, query, message, StatusFailed, StatusQueued, jobID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return status, nil
}

// ReleaseStale sweeps running jobs whose claim predates the cutoff. Each
// sweep consumes an attempt, mirroring Fail.
func (r *PGRepo) ReleaseStale(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `
UPDATE jobs
SET attempts = attempts + 1,
    status = CASE WHEN attempts + 1 >= max_attempts THEN $1 ELSE $2 END,
    error_message = CASE WHEN attempts + 1 >= max_attempts THEN 'stale claim released' ELSE error_message END,
    finished_at = CASE WHEN attempts + 1 >= max_attempts THEN now() ELSE finished_at END,
    claimed_by = NULL,
    claimed_at = NULL,
    updated_at = now()
WHERE status = $3 AND claimed_at < $4`
	res, err := r.DB.ExecContext(ctx, query, StatusFailed, StatusQueued, StatusRunning, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *PGRepo) scanOne(row *sql.Row) (Job, error) {
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var batchID sql.NullString
	var errorMessage sql.NullString
	var claimedBy sql.NullString
	var claimedAt sql.NullTime
	var startedAt sql.NullTime
	var finishedAt sql.NullTime
	err := row.Scan(
		&job.ID,
		&job.TenantID,
		&batchID,
		&job.ResumeID,
		&job.JobDescriptionID,
		&job.Status,
		&job.Attempts,
		&job.MaxAttempts,
		&job.LastStep,
		&job.Progress,
		&errorMessage,
		&claimedBy,
		&claimedAt,
		&startedAt,
		&finishedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	job.BatchID = batchID.String
	job.ErrorMessage = errorMessage.String
	job.ClaimedBy = claimedBy.String
	if claimedAt.Valid {
		job.ClaimedAt = &claimedAt.Time
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		job.FinishedAt = &finishedAt.Time
	}
	return job, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
