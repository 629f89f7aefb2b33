package models

import (
	"time"

	"github.com/google/uuid"
)

// Job names understood by the worker and the cron trigger
const (
	JobHeartbeat      = "heartbeat"
	JobLowStock       = "low-stock"
	JobOrderReminders = "order-reminders"
	JobWeeklyReport   = "weekly-report"
)

// JobRequest is a request to run a periodic job, carried through the queue
type JobRequest struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RequestedAt time.Time `json:"requested_at"`
}

// IsValidJobName checks if name is a known job
func IsValidJobName(name string) bool {
	switch name {
	case JobHeartbeat, JobLowStock, JobOrderReminders, JobWeeklyReport:
		return true
	default:
		return false
	}
}

// NewJobRequest creates a request for the named job with a fresh id
func NewJobRequest(name string) *JobRequest {
	return &JobRequest{
		ID:          uuid.NewString(),
		Name:        name,
		RequestedAt: time.Now().UTC(),
	}
}
