package batches

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/jobs"
	"screening-backend/internal/queue"
	"screening-backend/internal/resumes"
	"screening-backend/internal/shared/telemetry"
	"screening-backend/internal/usage"
)

var (
	ErrInvalidInput  = errors.New("invalid screening request")
	ErrQuotaExceeded = errors.New("screening quota exceeded")
)

// Quota consumes tenant screening units. Satisfied by usage.Service.
type Quota interface {
	CanConsume(ctx context.Context, tenantID string, n int) (bool, usage.Usage, error)
	Consume(ctx context.Context, tenantID string, n int) (usage.Usage, error)
}

type Service struct {
	Repo     Repo
	Jobs     *jobs.Service
	JDs      jobdescriptions.Repo
	Resumes  resumes.Repo
	Quota    Quota          // optional, nil disables quota checks
	Notifier queue.Notifier // optional, nil degrades workers to polling
}

// CreateScreening creates one batch and one queued job per resume, charging
// one quota unit per job up front.
func (s *Service) CreateScreening(ctx context.Context, tenantID, createdBy, jdID string, resumeIDs []string) (Batch, []jobs.Job, error) {
	tenantID = strings.TrimSpace(tenantID)
	jdID = strings.TrimSpace(jdID)
	if tenantID == "" || jdID == "" || len(resumeIDs) == 0 {
		return Batch{}, nil, ErrInvalidInput
	}

	if _, err := s.JDs.GetByID(ctx, tenantID, jdID); err != nil {
		return Batch{}, nil, err
	}
	seen := map[string]bool{}
	ids := make([]string, 0, len(resumeIDs))
	for _, id := range resumeIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.Resumes.GetByID(ctx, tenantID, id); err != nil {
			return Batch{}, nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return Batch{}, nil, ErrInvalidInput
	}

	if s.Quota != nil {
		ok, _, err := s.Quota.CanConsume(ctx, tenantID, len(ids))
		if err != nil {
			return Batch{}, nil, err
		}
		if !ok {
			return Batch{}, nil, ErrQuotaExceeded
		}
		if _, err := s.Quota.Consume(ctx, tenantID, len(ids)); err != nil {
			if errors.Is(err, usage.ErrLimitReached) {
				return Batch{}, nil, ErrQuotaExceeded
			}
			return Batch{}, nil, err
		}
	}

	now := time.Now().UTC()
	batch := Batch{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		JobDescriptionID: jdID,
		Status:           StatusPending,
		Total:            len(ids),
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, batch); err != nil {
		return Batch{}, nil, err
	}

	created := make([]jobs.Job, 0, len(ids))
	for _, resumeID := range ids {
		job, err := s.Jobs.Enqueue(ctx, tenantID, batch.ID, resumeID, jdID)
		if err != nil {
			return Batch{}, nil, err
		}
		created = append(created, job)
	}

	if s.Notifier != nil {
		for _, job := range created {
			if err := s.Notifier.Publish(ctx, queue.JobReady{JobID: job.ID, BatchID: batch.ID}); err != nil {
				telemetry.Error("queue publish failed", map[string]any{"jobId": job.ID, "err": err.Error()})
			}
		}
	}
	return batch, created, nil
}

// Get returns a batch with its per-status job counts.
func (s *Service) Get(ctx context.Context, tenantID, batchID string) (BatchDetail, error) {
	batch, err := s.Repo.GetForTenant(ctx, tenantID, batchID)
	if err != nil {
		return BatchDetail{}, err
	}
	counts, err := s.countJobs(ctx, batchID)
	if err != nil {
		return BatchDetail{}, err
	}
	return BatchDetail{Batch: batch, Counts: counts}, nil
}

// List returns the tenant's batch history, newest first, with job counts.
func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]BatchDetail, error) {
	list, err := s.Repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]BatchDetail, 0, len(list))
	for _, batch := range list {
		counts, err := s.countJobs(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BatchDetail{Batch: batch, Counts: counts})
	}
	return out, nil
}

// CheckAndUpdate derives batch status from its jobs. Once every job is
// terminal the batch is completed, or failed when any job failed.
func (s *Service) CheckAndUpdate(ctx context.Context, batchID string) (string, error) {
	if batchID == "" {
		return "", nil
	}
	list, err := s.Jobs.ListByBatch(ctx, batchID)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return StatusPending, nil
	}

	anyFailed := false
	anyStarted := false
	for _, job := range list {
		if !job.Terminal() {
			if job.Status == jobs.StatusRunning || job.Attempts > 0 {
				anyStarted = true
			}
			continue
		}
		anyStarted = true
		if job.Status == jobs.StatusFailed {
			anyFailed = true
		}
	}

	status := StatusPending
	allTerminal := true
	for _, job := range list {
		if !job.Terminal() {
			allTerminal = false
			break
		}
	}
	switch {
	case allTerminal && anyFailed:
		status = StatusFailed
	case allTerminal:
		status = StatusCompleted
	case anyStarted:
		status = StatusProcessing
	}

	if err := s.Repo.UpdateStatus(ctx, batchID, status); err != nil {
		return "", err
	}
	return status, nil
}

func (s *Service) countJobs(ctx context.Context, batchID string) (JobCounts, error) {
	list, err := s.Jobs.ListByBatch(ctx, batchID)
	if err != nil {
		return JobCounts{}, err
	}
	var counts JobCounts
	for _, job := range list {
		switch job.Status {
		case jobs.StatusQueued:
			counts.Queued++
		case jobs.StatusRunning:
			counts.Running++
		case jobs.StatusCompleted:
			counts.Completed++
		case jobs.StatusFailed:
			counts.Failed++
		}
	}
	return counts, nil
}
