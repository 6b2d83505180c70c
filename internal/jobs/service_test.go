package jobs

import (
	"context"
	"testing"
)

func TestEnqueueUsesConfiguredMaxAttempts(t *testing.T) {
	ctx := context.Background()

	svc := NewService(NewMemoryRepo())
	svc.MaxAttempts = 5
	job, err := svc.Enqueue(ctx, "tenant-1", "", "resume-1", "jd-1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d, want 5", job.MaxAttempts)
	}

	// Unset falls back to the default.
	svc = NewService(NewMemoryRepo())
	job, err = svc.Enqueue(ctx, "tenant-1", "", "resume-1", "jd-1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.MaxAttempts != DefaultMaxAttempts {
		t.Fatalf("max attempts = %d, want %d", job.MaxAttempts, DefaultMaxAttempts)
	}
}
