package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"screening-backend/internal/bootstrap"
	"screening-backend/internal/jobs"
	"screening-backend/internal/queue"
	"screening-backend/internal/shared/config"
	"screening-backend/internal/shared/telemetry"
)

// maxIdleWait caps the backoff between claim attempts when the queue is empty.
const maxIdleWait = 30 * time.Second

const staleSweepInterval = time.Minute

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wake := startConsumer(ctx, cfg)
	go sweepStale(ctx, app, cfg.StaleAfter)

	concurrency := cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	log.Printf("worker started concurrency=%d poll=%s stale_after=%s", concurrency, cfg.PollInterval, cfg.StaleAfter)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		workerID := fmt.Sprintf("worker-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimLoop(ctx, app, cfg, workerID, wake)
		}()
	}

	<-ctx.Done()
	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", cfg.ShutdownTimeout)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cfg.ShutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

// startConsumer subscribes to job-ready notifications when a broker is
// configured. Workers fall back to plain polling without one.
func startConsumer(ctx context.Context, cfg config.Config) <-chan struct{} {
	wake := make(chan struct{}, 1)
	if cfg.AMQPURL == "" {
		return wake
	}

	consumer, err := queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		telemetry.Warn("worker.amqp.connect_failed", map[string]any{"error": err.Error()})
		return wake
	}
	go func() {
		defer consumer.Close()
		err := consumer.Consume(ctx, func(queue.JobReady) {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		if err != nil && ctx.Err() == nil {
			telemetry.Error("worker.amqp.consume_stopped", map[string]any{"error": err.Error()})
		}
	}()
	return wake
}

// sweepStale periodically requeues jobs whose worker stopped heartbeating.
func sweepStale(ctx context.Context, app *bootstrap.App, staleAfter time.Duration) {
	ticker := time.NewTicker(staleSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.JobsService.ReleaseStale(ctx, staleAfter)
			if err != nil {
				telemetry.Error("worker.stale_sweep.failed", map[string]any{"error": err.Error()})
				continue
			}
			if n > 0 {
				telemetry.Info("worker.stale_sweep.released", map[string]any{"count": n})
			}
		}
	}
}

func claimLoop(ctx context.Context, app *bootstrap.App, cfg config.Config, workerID string, wake <-chan struct{}) {
	idle := cfg.PollInterval
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := app.JobsService.Claim(ctx, workerID)
		if err != nil {
			if !errors.Is(err, jobs.ErrNoneAvailable) && ctx.Err() == nil {
				telemetry.Error("worker.claim.failed", map[string]any{"worker_id": workerID, "error": err.Error()})
			}
			select {
			case <-ctx.Done():
				return
			case <-wake:
				idle = cfg.PollInterval
			case <-time.After(jitter(idle)):
				idle *= 2
				if idle > maxIdleWait {
					idle = maxIdleWait
				}
			}
			continue
		}

		idle = cfg.PollInterval
		process(ctx, app, workerID, job)
	}
}

// process runs one claimed job end to end. A cancelled parent context stops
// new claims but lets the in-flight job finish.
func process(ctx context.Context, app *bootstrap.App, workerID string, job jobs.Job) {
	jobCtx := context.WithoutCancel(ctx)

	app.Metrics.JobsClaimed.Inc()
	telemetry.Info("worker.job.claimed", map[string]any{
		"worker_id": workerID,
		"job_id":    job.ID,
		"batch_id":  job.BatchID,
		"attempt":   job.Attempts,
	})

	if runErr := app.Runner.Run(jobCtx, job); runErr != nil {
		status, err := app.JobsService.Fail(jobCtx, job.ID, runErr.Error())
		if err != nil {
			telemetry.Error("worker.job.fail_record", map[string]any{"job_id": job.ID, "error": err.Error()})
		}
		if status == jobs.StatusQueued {
			app.Metrics.JobsRetried.Inc()
		} else {
			app.Metrics.JobsFailed.Inc()
		}
		telemetry.Error("worker.job.failed", map[string]any{
			"worker_id": workerID,
			"job_id":    job.ID,
			"status":    status,
			"error":     runErr.Error(),
		})
	} else {
		if err := app.JobsService.Complete(jobCtx, job.ID); err != nil {
			telemetry.Error("worker.job.complete_record", map[string]any{"job_id": job.ID, "error": err.Error()})
		}
		app.Metrics.JobsCompleted.Inc()
		telemetry.Info("worker.job.completed", map[string]any{"worker_id": workerID, "job_id": job.ID})
	}

	if job.BatchID != "" {
		if _, err := app.BatchesService.CheckAndUpdate(jobCtx, job.BatchID); err != nil {
			telemetry.Error("worker.batch.rollup_failed", map[string]any{"batch_id": job.BatchID, "error": err.Error()})
		}
	}
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}
