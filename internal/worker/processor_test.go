package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/queue"
)

type mockRunner struct {
	mu   sync.Mutex
	runs []string
	err  error
}

func (m *mockRunner) Run(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, name)
	return m.err
}

// mockLocker is an in-process Locker
type mockLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	released []string
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]bool)}
}

func (m *mockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if m.held[name] {
		return nil, queue.ErrLockHeld
	}
	m.held[name] = true

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, name)
		m.released = append(m.released, name)
		return nil
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcess_RunsJobAndReleasesLock(t *testing.T) {
	runner := &mockRunner{}
	locker := newMockLocker()
	p := NewJobProcessor(runner, locker, time.Minute, testLogger())

	err := p.Process(context.Background(), models.NewJobRequest(models.JobLowStock))
	require.NoError(t, err)

	assert.Equal(t, []string{models.JobLowStock}, runner.runs)
	assert.Equal(t, []string{models.JobLowStock}, locker.released)
	assert.Empty(t, locker.held)
}

func TestProcess_SkipsWhenLocked(t *testing.T) {
	runner := &mockRunner{}
	locker := newMockLocker()
	locker.held[models.JobHeartbeat] = true
	p := NewJobProcessor(runner, locker, time.Minute, testLogger())

	err := p.Process(context.Background(), models.NewJobRequest(models.JobHeartbeat))
	require.NoError(t, err)

	assert.Empty(t, runner.runs)
	assert.True(t, locker.held[models.JobHeartbeat], "the other holder keeps the lock")
}

func TestProcess_DifferentJobsDoNotBlockEachOther(t *testing.T) {
	runner := &mockRunner{}
	locker := newMockLocker()
	locker.held[models.JobHeartbeat] = true
	p := NewJobProcessor(runner, locker, time.Minute, testLogger())

	require.NoError(t, p.Process(context.Background(), models.NewJobRequest(models.JobWeeklyReport)))
	assert.Equal(t, []string{models.JobWeeklyReport}, runner.runs)
}

func TestProcess_LockError(t *testing.T) {
	runner := &mockRunner{}
	locker := newMockLocker()
	locker.err = errors.New("redis unavailable")
	p := NewJobProcessor(runner, locker, time.Minute, testLogger())

	err := p.Process(context.Background(), models.NewJobRequest(models.JobLowStock))
	require.Error(t, err)
	assert.Empty(t, runner.runs)
}

func TestProcess_RunnerErrorStillReleasesLock(t *testing.T) {
	runner := &mockRunner{err: errors.New("job panicked")}
	locker := newMockLocker()
	p := NewJobProcessor(runner, locker, time.Minute, testLogger())

	err := p.Process(context.Background(), models.NewJobRequest(models.JobOrderReminders))
	require.Error(t, err)
	assert.Equal(t, []string{models.JobOrderReminders}, locker.released)
}

func TestProcess_ConcurrentRequestsRunOnce(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	runner := &blockingRunner{started: started, block: block}
	locker := newMockLocker()
	p := NewJobProcessor(runner, locker, time.Minute, testLogger())

	done := make(chan error, 1)
	go func() {
		done <- p.Process(context.Background(), models.NewJobRequest(models.JobLowStock))
	}()
	<-started

	require.NoError(t, p.Process(context.Background(), models.NewJobRequest(models.JobLowStock)))

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, runner.calls)
}

type blockingRunner struct {
	started chan struct{}
	block   chan struct{}
	calls   int
}

func (b *blockingRunner) Run(ctx context.Context, name string) error {
	b.calls++
	close(b.started)
	<-b.block
	return nil
}
