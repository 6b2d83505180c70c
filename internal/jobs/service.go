package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid job input")

type Service struct {
	Repo Repo

	// MaxAttempts caps how often a newly enqueued job may run. Zero or
	// negative falls back to DefaultMaxAttempts.
	MaxAttempts int
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Enqueue creates a queued job for one resume against one job description.
func (s *Service) Enqueue(ctx context.Context, tenantID, batchID, resumeID, jobDescriptionID string) (Job, error) {
	tenantID = strings.TrimSpace(tenantID)
	resumeID = strings.TrimSpace(resumeID)
	jobDescriptionID = strings.TrimSpace(jobDescriptionID)
	if tenantID == "" || resumeID == "" || jobDescriptionID == "" {
		return Job{}, ErrInvalidInput
	}

	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	now := time.Now().UTC()
	job := Job{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		BatchID:          batchID,
		ResumeID:         resumeID,
		JobDescriptionID: jobDescriptionID,
		Status:           StatusQueued,
		MaxAttempts:      maxAttempts,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns a job scoped to the caller's tenant.
func (s *Service) Get(ctx context.Context, tenantID, jobID string) (Job, error) {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(jobID) == "" {
		return Job{}, ErrInvalidInput
	}
	return s.Repo.GetForTenant(ctx, tenantID, jobID)
}

func (s *Service) ListByBatch(ctx context.Context, batchID string) ([]Job, error) {
	return s.Repo.ListByBatch(ctx, batchID)
}

func (s *Service) Claim(ctx context.Context, workerID string) (Job, error) {
	return s.Repo.Claim(ctx, workerID)
}

func (s *Service) MarkProgress(ctx context.Context, jobID, step string, progress int) error {
	return s.Repo.MarkProgress(ctx, jobID, step, progress)
}

func (s *Service) Complete(ctx context.Context, jobID string) error {
	return s.Repo.Complete(ctx, jobID)
}

// Fail records a failed attempt and reports the resulting status, either
// queued for a retry or terminally failed.
func (s *Service) Fail(ctx context.Context, jobID, message string) (string, error) {
	return s.Repo.Fail(ctx, jobID, message)
}

func (s *Service) ReleaseStale(ctx context.Context, staleAfter time.Duration) (int, error) {
	return s.Repo.ReleaseStale(ctx, time.Now().UTC().Add(-staleAfter))
}
