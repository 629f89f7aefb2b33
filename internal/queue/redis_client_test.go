package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/models"
)

func TestClampConcurrency(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: -3, want: 1},
		{in: 0, want: 1},
		{in: 3, want: 3},
		{in: 5, want: 5},
		{in: 50, want: MaxConcurrency},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, clampConcurrency(tt.in))
	}
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "crm_jobs:lock:low-stock", lockKey("crm_jobs", models.JobLowStock))
}

func TestDecodeJob(t *testing.T) {
	job, err := decodeJob(`{"id":"abc","name":"heartbeat","requested_at":"2025-01-02T03:04:05Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "abc", job.ID)
	assert.Equal(t, models.JobHeartbeat, job.Name)
	assert.Equal(t, 2025, job.RequestedAt.Year())

	_, err = decodeJob(`{"id":"abc","name":"defrag"}`)
	assert.Error(t, err)

	_, err = decodeJob(`not json`)
	assert.Error(t, err)
}
