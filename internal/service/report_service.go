package service

import (
	"context"
	"fmt"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// HelloMessage is the answer of the trivial health query
const HelloMessage = "Hello, CRM!"

// ReportService serves aggregate and health queries
type ReportService interface {
	Summary(ctx context.Context) (*models.Summary, error)
	Hello(ctx context.Context) string
}

type reportService struct {
	store repository.Store
}

// NewReportService creates a new report service
func NewReportService(store repository.Store) ReportService {
	return &reportService{store: store}
}

// Summary counts customers and orders and sums order totals
func (s *reportService) Summary(ctx context.Context) (*models.Summary, error) {
	summary, err := s.store.Reports().Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	return summary, nil
}

// Hello answers the health query
func (s *reportService) Hello(ctx context.Context) string {
	return HelloMessage
}
