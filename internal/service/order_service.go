package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/validation"
)

// OrderService handles order business logic
type OrderService interface {
	Create(ctx context.Context, input OrderInput) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, id int64, req UpdateOrderStatusRequest) (*models.Order, error)
}

type orderService struct {
	store  repository.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store repository.Store, logger *slog.Logger) OrderService {
	return &orderService{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Create resolves the customer and products, totals the product prices and
// stores the order with its products, all in one transaction
func (s *orderService) Create(ctx context.Context, input OrderInput) (*models.Order, error) {
	var order *models.Order

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		customer, err := tx.Customers().GetByID(ctx, input.CustomerID)
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidReferenceWithMsg("customer_id", "Invalid customer ID")
		}
		if err != nil {
			return err
		}

		products, err := tx.Products().GetByIDs(ctx, input.ProductIDs)
		if err != nil {
			return err
		}
		if err := validation.ProductIDs(input.ProductIDs, len(products)); err != nil {
			return err
		}

		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}

		orderDate := s.now()
		if input.OrderDate != nil {
			orderDate = input.OrderDate.UTC()
		}

		order = &models.Order{
			CustomerID:  customer.ID,
			Customer:    customer,
			Products:    products,
			TotalAmount: total,
			OrderDate:   orderDate,
			Status:      models.OrderStatusPending,
		}

		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		s.logger.Error("failed to create order",
			slog.Int64("customer_id", input.CustomerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", order.CustomerID),
		slog.Int("products", len(order.Products)),
		slog.String("total_amount", order.TotalAmount.StringFixed(2)),
	)

	return order, nil
}

// GetByID retrieves an order with its customer and products
func (s *orderService) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// List retrieves orders with optional filtering, ordering and pagination
func (s *orderService) List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, models.ErrInvalidInputWithMsg("status", fmt.Sprintf("invalid status: %s", filter.Status))
	}

	orders, totalCount, err := s.store.Orders().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderListResult{
		Data:       orders,
		TotalCount: totalCount,
		Pagination: paginationFor(filter.Page, filter.PageSize, totalCount),
	}, nil
}

// UpdateStatus changes an order's status and returns the updated order
func (s *orderService) UpdateStatus(ctx context.Context, id int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Orders().UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("failed to update order status",
			slog.Int64("order_id", id),
			slog.String("status", req.Status),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("order status updated",
		slog.Int64("order_id", id),
		slog.String("status", req.Status),
	)

	return s.store.Orders().GetByID(ctx, id)
}
