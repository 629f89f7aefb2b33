package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/logging"
	"github.com/Raymond9734/crm-backend/internal/models"
)

// handleError maps service errors to HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		if status == http.StatusInternalServerError {
			logInternal(r, err, logger)
		}
		respondError(w, status, ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Log internal errors but don't expose details to client
	logInternal(r, err, logger)
	respondError(w, http.StatusInternalServerError, ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "An unexpected error occurred",
	})
}

func logInternal(r *http.Request, err error, logger *slog.Logger) {
	logging.FromContext(r.Context(), logger).Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case models.CodeInvalidInput, models.CodeInvalidFormat, models.CodeMustBePositive, models.CodeMustBeNonNegative:
		return http.StatusBadRequest
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeAlreadyExists, models.CodeConflict:
		return http.StatusConflict
	case models.CodeInvalidReference, models.CodeNoneFound, models.CodeSomeInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
