package memstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

type reportRepo struct {
	s *Store
}

func (r *reportRepo) Summary(ctx context.Context) (*models.Summary, error) {
	defer r.s.lock()()

	summary := &models.Summary{
		CustomerCount: int64(len(r.s.d.customers)),
		OrderCount:    int64(len(r.s.d.orders)),
		TotalRevenue:  decimal.Zero,
	}
	for _, row := range r.s.d.orders {
		summary.TotalRevenue = summary.TotalRevenue.Add(row.order.TotalAmount)
	}
	return summary, nil
}
