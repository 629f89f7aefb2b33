package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/service"
)

// ReportHandler serves the summary report and the hello query
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// HelloResponse is the body of GET /hello
type HelloResponse struct {
	Hello string `json:"hello"`
}

// Hello handles GET /hello
func (h *ReportHandler) Hello(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, HelloResponse{Hello: h.reportService.Hello(r.Context())})
}

// Summary handles GET /reports/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportService.Summary(r.Context())
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, summary)
}
