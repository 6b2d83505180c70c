package queue

import (
	"context"
	"testing"
	"time"
)

func TestJobReadyRoundTrip(t *testing.T) {
	in := JobReady{JobID: "job-1", BatchID: "batch-1"}
	b, err := in.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := UnmarshalJobReady(b)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestUnmarshalJobReadyRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalJobReady([]byte("not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMemoryPublishConsume(t *testing.T) {
	q := NewMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := q.Publish(ctx, JobReady{JobID: "j1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := make(chan JobReady, 1)
	go q.Consume(ctx, func(m JobReady) { got <- m })

	select {
	case m := <-got:
		if m.JobID != "j1" {
			t.Fatalf("got job %q", m.JobID)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
	}
}

func TestMemoryPublishHonoursContext(t *testing.T) {
	q := NewMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	q.Publish(ctx, JobReady{JobID: "fill"})
	cancel()
	if err := q.Publish(ctx, JobReady{JobID: "blocked"}); err == nil {
		t.Fatalf("expected context error")
	}
}
