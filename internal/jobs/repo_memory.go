package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo implements Repo with an in-memory map. Used by tests and
// local development without Postgres.
type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) GetForTenant(ctx context.Context, tenantID, jobID string) (Job, error) {
	job, err := r.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if job.TenantID != tenantID {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) ListByBatch(ctx context.Context, batchID string) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Job{}
	for _, job := range r.jobs {
		if job.BatchID == batchID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Claim(ctx context.Context, workerID string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var oldest *Job
	for id := range r.jobs {
		job := r.jobs[id]
		if job.Status != StatusQueued {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = &job
		}
	}
	if oldest == nil {
		return Job{}, ErrNoneAvailable
	}

	now := time.Now().UTC()
	claimed := *oldest
	claimed.Status = StatusRunning
	claimed.ClaimedBy = workerID
	claimed.ClaimedAt = &now
	if claimed.StartedAt == nil {
		claimed.StartedAt = &now
	}
	claimed.UpdatedAt = now
	r.jobs[claimed.ID] = claimed
	return claimed, nil
}

func (r *MemoryRepo) MarkProgress(ctx context.Context, jobID, step string, progress int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	job.LastStep = step
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC()
	r.jobs[jobID] = job
	return nil
}

func (r *MemoryRepo) Complete(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	job.Status = StatusCompleted
	job.Progress = 100
	job.ErrorMessage = ""
	job.FinishedAt = &now
	job.UpdatedAt = now
	r.jobs[jobID] = job
	return nil
}

func (r *MemoryRepo) Fail(ctx context.Context, jobID, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return "", ErrNotFound
	}
	r.jobs[jobID] = failLocked(job, message)
	return r.jobs[jobID].Status, nil
}

func (r *MemoryRepo) ReleaseStale(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	released := 0
	for id, job := range r.jobs {
		if job.Status != StatusRunning || job.ClaimedAt == nil || !job.ClaimedAt.Before(cutoff) {
			continue
		}
		r.jobs[id] = failLocked(job, "stale claim released")
		released++
	}
	return released, nil
}

func failLocked(job Job, message string) Job {
	now := time.Now().UTC()
	job.Attempts++
	job.ClaimedBy = ""
	job.ClaimedAt = nil
	job.UpdatedAt = now
	if job.Attempts >= job.MaxAttempts {
		job.Status = StatusFailed
		job.ErrorMessage = message
		job.FinishedAt = &now
		return job
	}
	job.Status = StatusQueued
	job.ErrorMessage = message
	return job
}
