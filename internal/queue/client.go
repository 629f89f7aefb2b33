package queue

import (
	"context"
	"errors"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// ErrLockHeld is returned by Acquire when another holder owns the lock
var ErrLockHeld = errors.New("lock is held by another worker")

// Client defines the interface for queue operations
type Client interface {
	// Publish sends a job request to the queue
	Publish(ctx context.Context, job *models.JobRequest) error

	// Consume receives job requests from the queue and processes them with the handler
	// concurrency controls how many requests can be processed simultaneously
	Consume(ctx context.Context, handler JobHandler, concurrency int) error

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// Locker hands out short-lived named locks. Acquire returns ErrLockHeld when
// the name is already locked; the returned release func frees the lock only
// if it is still owned by the caller.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, err error)
}

// JobHandler is a function that processes a job request
type JobHandler func(ctx context.Context, job *models.JobRequest) error
