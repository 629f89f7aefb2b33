package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// ProductService handles product business logic
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) (*ProductListResult, error)
	RestockLowStock(ctx context.Context, req RestockRequest) (*RestockResult, error)
}

type productService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(store repository.Store, logger *slog.Logger) ProductService {
	return &productService{
		store:  store,
		logger: logger,
	}
}

// Create creates a new product
func (s *productService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:  strings.TrimSpace(input.Name),
		Price: input.Price,
		Stock: input.Stock,
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		s.logger.Error("failed to create product",
			slog.String("name", input.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
		slog.String("price", product.Price.StringFixed(2)),
		slog.Int("stock", product.Stock),
	)

	return product, nil
}

// Update replaces the name, price and stock of an existing product
func (s *productService) Update(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:    id,
		Name:  strings.TrimSpace(input.Name),
		Price: input.Price,
		Stock: input.Stock,
	}

	if err := s.store.Products().Update(ctx, product); err != nil {
		s.logger.Error("failed to update product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("product updated",
		slog.Int64("product_id", id),
	)

	return product, nil
}

// GetByID retrieves a product by ID
func (s *productService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// List retrieves products with optional filtering, ordering and pagination
func (s *productService) List(ctx context.Context, filter models.ProductFilter) (*ProductListResult, error) {
	products, totalCount, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductListResult{
		Data:       products,
		TotalCount: totalCount,
		Pagination: paginationFor(filter.Page, filter.PageSize, totalCount),
	}, nil
}

// RestockLowStock adds the restock amount to every product below the
// threshold in a single statement and returns the updated products
func (s *productService) RestockLowStock(ctx context.Context, req RestockRequest) (*RestockResult, error) {
	threshold, amount, err := req.Validate()
	if err != nil {
		return nil, err
	}

	products, err := s.store.Products().RestockBelow(ctx, threshold, amount)
	if err != nil {
		s.logger.Error("failed to restock low-stock products",
			slog.Int("threshold", threshold),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to restock products: %w", err)
	}

	s.logger.Info("low-stock products restocked",
		slog.Int("threshold", threshold),
		slog.Int("amount", amount),
		slog.Int("updated", len(products)),
	)

	return &RestockResult{
		Success:         fmt.Sprintf("Restocked %d product(s) with stock below %d", len(products), threshold),
		UpdatedProducts: products,
	}, nil
}
