package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	ctx := context.Background()

	svc.Record(ctx, "tenant-1", "job-1", "parse", "v1", []byte("resume text"), json.RawMessage(`{"model":"gpt-4o-mini"}`), json.RawMessage(`{"name":"Priya"}`), StatusValid, nil)
	svc.Record(ctx, "tenant-1", "job-1", "score", "v1", []byte("resume text"), nil, json.RawMessage(`{"final_score":78}`), StatusValid, nil)
	svc.Record(ctx, "tenant-1", "job-2", "parse", "v1", []byte("other"), nil, nil, StatusInvalid, []string{"bad_json"})

	events, err := svc.Recent(ctx, "tenant-1", "job-1")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	for _, ev := range events {
		if ev.JobID != "job-1" {
			t.Fatalf("leaked event for %s", ev.JobID)
		}
		if ev.ID == "" || ev.InputHash == "" || ev.CreatedAt.IsZero() {
			t.Fatalf("incomplete event: %+v", ev)
		}
	}
	// Both events hashed the same input.
	if events[0].InputHash != events[1].InputHash {
		t.Fatalf("hashes differ for identical input")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Now()
	for i, stage := range []string{"parse", "score"} {
		repo.Append(context.Background(), Event{
			ID:        stage,
			TenantID:  "tenant-1",
			JobID:     "job-1",
			Stage:     stage,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
	}

	events, err := repo.ListByJob(context.Background(), "tenant-1", "job-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if events[0].Stage != "score" {
		t.Fatalf("order wrong: %s first", events[0].Stage)
	}
}

func TestHashInputDeterministic(t *testing.T) {
	a := HashInput([]byte("same"))
	b := HashInput([]byte("same"))
	if a != b || len(a) != 64 {
		t.Fatalf("hash = %q / %q", a, b)
	}
	if HashInput([]byte("other")) == a {
		t.Fatalf("distinct inputs collided")
	}
}
