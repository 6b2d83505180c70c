package batches

import (
	"context"
	"errors"
	"testing"
	"time"

	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/jobs"
	"screening-backend/internal/queue"
	"screening-backend/internal/resumes"
)

func newTestService(t *testing.T) (*Service, *queue.Memory) {
	t.Helper()
	ctx := context.Background()

	jdRepo := jobdescriptions.NewMemoryRepo()
	if err := jdRepo.Create(ctx, jobdescriptions.JobDescription{ID: "jd-1", TenantID: "tenant-1", Title: "Backend Engineer", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed jd: %v", err)
	}

	resumeRepo := resumes.NewMemoryRepo()
	for _, id := range []string{"resume-1", "resume-2"} {
		if err := resumeRepo.Create(ctx, resumes.Resume{ID: id, TenantID: "tenant-1", FileName: id + ".pdf", CreatedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("seed resume: %v", err)
		}
	}

	notifier := queue.NewMemory(16)
	return &Service{
		Repo:     NewMemoryRepo(),
		Jobs:     jobs.NewService(jobs.NewMemoryRepo()),
		JDs:      jdRepo,
		Resumes:  resumeRepo,
		Notifier: notifier,
	}, notifier
}

func TestCreateScreeningEnqueuesJobPerResume(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	batch, created, err := svc.CreateScreening(ctx, "tenant-1", "user-1", "jd-1", []string{"resume-1", "resume-2", "resume-1"})
	if err != nil {
		t.Fatalf("CreateScreening: %v", err)
	}
	if batch.Status != StatusPending || batch.Total != 2 {
		t.Fatalf("batch = %+v, want pending with 2 jobs", batch)
	}
	if len(created) != 2 {
		t.Fatalf("created %d jobs, want 2 after dedup", len(created))
	}
	for _, job := range created {
		if job.Status != jobs.StatusQueued || job.BatchID != batch.ID {
			t.Fatalf("job not queued into batch: %+v", job)
		}
	}
}

func TestCreateScreeningUnknownResume(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, _, err := svc.CreateScreening(ctx, "tenant-1", "user-1", "jd-1", []string{"resume-missing"})
	if !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("err = %v, want resumes.ErrNotFound", err)
	}
}

func TestCreateScreeningUnknownJD(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, _, err := svc.CreateScreening(ctx, "tenant-1", "user-1", "jd-missing", []string{"resume-1"})
	if !errors.Is(err, jobdescriptions.ErrNotFound) {
		t.Fatalf("err = %v, want jobdescriptions.ErrNotFound", err)
	}
}

func TestCheckAndUpdateRollsUpTerminalJobs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	batch, created, err := svc.CreateScreening(ctx, "tenant-1", "user-1", "jd-1", []string{"resume-1", "resume-2"})
	if err != nil {
		t.Fatalf("CreateScreening: %v", err)
	}

	status, err := svc.CheckAndUpdate(ctx, batch.ID)
	if err != nil {
		t.Fatalf("CheckAndUpdate: %v", err)
	}
	if status != StatusPending {
		t.Fatalf("status = %q before any work, want pending", status)
	}

	if err := svc.Jobs.Complete(ctx, created[0].ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	status, err = svc.CheckAndUpdate(ctx, batch.ID)
	if err != nil {
		t.Fatalf("CheckAndUpdate: %v", err)
	}
	if status != StatusProcessing {
		t.Fatalf("status = %q with one job done, want processing", status)
	}

	// Exhaust the second job's attempts so it fails terminally.
	for i := 0; i < jobs.DefaultMaxAttempts; i++ {
		if _, err := svc.Jobs.Fail(ctx, created[1].ID, "boom"); err != nil {
			t.Fatalf("Fail: %v", err)
		}
	}
	status, err = svc.CheckAndUpdate(ctx, batch.ID)
	if err != nil {
		t.Fatalf("CheckAndUpdate: %v", err)
	}
	if status != StatusFailed {
		t.Fatalf("status = %q, want failed once any job failed", status)
	}

	detail, err := svc.Get(ctx, "tenant-1", batch.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Counts.Completed != 1 || detail.Counts.Failed != 1 {
		t.Fatalf("counts = %+v, want one completed and one failed", detail.Counts)
	}
}
