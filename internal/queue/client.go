package queue

import "context"

// Notifier publishes job-ready wake-ups. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Publish(ctx context.Context, msg JobReady) error
	Close() error
}

// Consumer delivers job-ready wake-ups to a worker. Consume blocks until
// ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, fn func(JobReady)) error
	Close() error
}

// Noop satisfies Notifier when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, JobReady) error { return nil }
func (Noop) Close() error                            { return nil }
