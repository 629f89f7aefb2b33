package repository

import (
	"context"
	"fmt"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// ReportRepository defines the interface for aggregate queries
type ReportRepository interface {
	Summary(ctx context.Context) (*models.Summary, error)
}

// reportRepository implements ReportRepository using PostgreSQL
type reportRepository struct {
	db DBTX
}

// NewReportRepository creates a new report repository
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepository{db: db}
}

// Summary counts customers and orders and sums order totals
func (r *reportRepository) Summary(ctx context.Context) (*models.Summary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)`

	summary := &models.Summary{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&summary.CustomerCount,
		&summary.OrderCount,
		&summary.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return summary, nil
}
