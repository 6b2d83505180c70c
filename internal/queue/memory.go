package queue

import "context"

// Memory is a channel-backed queue for tests and single-process dev runs.
type Memory struct {
	ch chan JobReady
}

func NewMemory(buffer int) *Memory {
	if buffer <= 0 {
		buffer = 64
	}
	return &Memory{ch: make(chan JobReady, buffer)}
}

func (m *Memory) Publish(ctx context.Context, msg JobReady) error {
	select {
	case m.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Consume(ctx context.Context, fn func(JobReady)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-m.ch:
			fn(msg)
		}
	}
}

func (m *Memory) Close() error { return nil }
