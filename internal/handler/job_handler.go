package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/crm-backend/internal/logging"
	"github.com/Raymond9734/crm-backend/internal/models"
)

// JobPublisher enqueues job requests
type JobPublisher interface {
	Publish(ctx context.Context, job *models.JobRequest) error
}

// JobHandler lets clients trigger periodic jobs out of schedule
type JobHandler struct {
	publisher JobPublisher
	logger    *slog.Logger
}

// NewJobHandler creates a new job handler. A nil publisher disables enqueuing.
func NewJobHandler(publisher JobPublisher, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		publisher: publisher,
		logger:    logger,
	}
}

// EnqueueJob handles POST /jobs/{name}
func (h *JobHandler) EnqueueJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !models.IsValidJobName(name) {
		respondError(w, http.StatusNotFound, ErrorDetail{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("unknown job %q", name),
			Field:   "name",
		})
		return
	}

	if h.publisher == nil {
		respondError(w, http.StatusServiceUnavailable, ErrorDetail{
			Code:    "QUEUE_UNAVAILABLE",
			Message: "job queue is not configured",
		})
		return
	}

	job := models.NewJobRequest(name)
	if err := h.publisher.Publish(r.Context(), job); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	logging.FromContext(r.Context(), h.logger).Info("job enqueued",
		slog.String("job_id", job.ID),
		slog.String("job", job.Name),
	)

	respondJSON(w, http.StatusAccepted, job)
}
