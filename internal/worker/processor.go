package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/queue"
)

// JobRunner runs a job by name
type JobRunner interface {
	Run(ctx context.Context, name string) error
}

// JobProcessor processes job requests from the queue. Each job name is
// guarded by a lock so overlapping triggers never run the same job twice at
// once; a request that finds its job locked is skipped.
type JobProcessor struct {
	runner  JobRunner
	locker  queue.Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(runner JobRunner, locker queue.Locker, lockTTL time.Duration, logger *slog.Logger) *JobProcessor {
	return &JobProcessor{
		runner:  runner,
		locker:  locker,
		lockTTL: lockTTL,
		logger:  logger,
	}
}

// Process handles a single job request
func (p *JobProcessor) Process(ctx context.Context, job *models.JobRequest) error {
	logger := p.logger.With(
		slog.String("job_id", job.ID),
		slog.String("job", job.Name),
	)

	release, err := p.locker.Acquire(ctx, job.Name, p.lockTTL)
	if errors.Is(err, queue.ErrLockHeld) {
		logger.Warn("job already running, skipping request")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to lock job %s: %w", job.Name, err)
	}
	defer func() {
		// Release with a fresh context so a cancelled run still frees the lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			logger.Error("failed to release job lock", slog.String("error", err.Error()))
		}
	}()

	logger.Info("processing job request",
		slog.Duration("queued_for", time.Since(job.RequestedAt)),
	)

	if err := p.runner.Run(ctx, job.Name); err != nil {
		return fmt.Errorf("job %s failed: %w", job.Name, err)
	}

	return nil
}
