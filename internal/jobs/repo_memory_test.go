package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func queuedJob(id string, createdAt time.Time) Job {
	return Job{
		ID:               id,
		TenantID:         "tenant-1",
		ResumeID:         "resume-1",
		JobDescriptionID: "jd-1",
		Status:           StatusQueued,
		MaxAttempts:      DefaultMaxAttempts,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

func TestMemoryRepoClaimOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	base := time.Now().UTC()
	_ = repo.Create(ctx, queuedJob("newer", base.Add(time.Minute)))
	_ = repo.Create(ctx, queuedJob("older", base))

	claimed, err := repo.Claim(ctx, "worker-1")
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if claimed.ID != "older" {
		t.Fatalf("claimed %q, want oldest job", claimed.ID)
	}
	if claimed.Status != StatusRunning || claimed.ClaimedBy != "worker-1" || claimed.ClaimedAt == nil {
		t.Fatalf("claim did not mark job running: %+v", claimed)
	}

	if _, err := repo.Claim(ctx, "worker-2"); err != nil {
		t.Fatalf("second Claim: %v", err)
	}
	if _, err := repo.Claim(ctx, "worker-3"); !errors.Is(err, ErrNoneAvailable) {
		t.Fatalf("third Claim err = %v, want ErrNoneAvailable", err)
	}
}

func TestMemoryRepoFailRequeuesUntilAttemptsExhausted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	_ = repo.Create(ctx, queuedJob("job-1", time.Now().UTC()))

	for attempt := 1; attempt < DefaultMaxAttempts; attempt++ {
		if _, err := repo.Claim(ctx, "worker-1"); err != nil {
			t.Fatalf("Claim attempt %d: %v", attempt, err)
		}
		status, err := repo.Fail(ctx, "job-1", "boom")
		if err != nil {
			t.Fatalf("Fail attempt %d: %v", attempt, err)
		}
		if status != StatusQueued {
			t.Fatalf("attempt %d status = %q, want requeue", attempt, status)
		}
	}

	if _, err := repo.Claim(ctx, "worker-1"); err != nil {
		t.Fatalf("final Claim: %v", err)
	}
	status, err := repo.Fail(ctx, "job-1", "boom")
	if err != nil {
		t.Fatalf("final Fail: %v", err)
	}
	if status != StatusFailed {
		t.Fatalf("final status = %q, want terminal failure", status)
	}

	job, err := repo.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Attempts != DefaultMaxAttempts || job.FinishedAt == nil || job.ErrorMessage != "boom" {
		t.Fatalf("terminal job not recorded: %+v", job)
	}
}

func TestMemoryRepoReleaseStale(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	_ = repo.Create(ctx, queuedJob("job-1", time.Now().UTC()))
	if _, err := repo.Claim(ctx, "worker-1"); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	// A claim in the future of the cutoff is not stale.
	released, err := repo.ReleaseStale(ctx, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ReleaseStale: %v", err)
	}
	if released != 0 {
		t.Fatalf("released %d fresh jobs", released)
	}

	released, err = repo.ReleaseStale(ctx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("ReleaseStale: %v", err)
	}
	if released != 1 {
		t.Fatalf("released = %d, want 1", released)
	}

	job, err := repo.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != StatusQueued || job.ClaimedBy != "" || job.Attempts != 1 {
		t.Fatalf("stale job not requeued: %+v", job)
	}
}

func TestMemoryRepoTenantScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	_ = repo.Create(ctx, queuedJob("job-1", time.Now().UTC()))

	if _, err := repo.GetForTenant(ctx, "tenant-1", "job-1"); err != nil {
		t.Fatalf("GetForTenant same tenant: %v", err)
	}
	if _, err := repo.GetForTenant(ctx, "tenant-2", "job-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant err = %v, want ErrNotFound", err)
	}
}
