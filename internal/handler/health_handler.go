package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks a dependency's connectivity
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker checks a dependency's health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db          Pinger
	queueClient HealthChecker
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. A nil db means the
// in-memory store is in use; a nil queueClient means no queue is configured.
func NewHealthHandler(db Pinger, queueClient HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		queueClient: queueClient,
		logger:      logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	// Check database
	if h.db == nil {
		response.Services["database"] = "in_memory"
	} else if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database health check failed", slog.String("error", err.Error()))
		response.Status = "unhealthy"
		response.Services["database"] = "unhealthy"
	} else {
		response.Services["database"] = "healthy"
	}

	// Check queue
	if h.queueClient != nil {
		if err := h.queueClient.Health(ctx); err != nil {
			h.logger.Error("queue health check failed", slog.String("error", err.Error()))
			response.Status = "unhealthy"
			response.Services["queue"] = "unhealthy"
		} else {
			response.Services["queue"] = "healthy"
		}
	} else {
		response.Services["queue"] = "not_configured"
	}

	if response.Status == "healthy" {
		respondSuccess(w, response)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, response)
	}
}
