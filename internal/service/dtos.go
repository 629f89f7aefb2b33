package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/validation"
)

// CustomerInput represents a request to create a customer
type CustomerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// CreateCustomerResult is returned by a successful customer creation
type CreateCustomerResult struct {
	Customer *models.Customer `json:"customer"`
	Message  string           `json:"message"`
}

// BulkCreateCustomersResult holds the created customers and one
// "<email>: <reason>" entry per rejected input
type BulkCreateCustomersResult struct {
	Customers []*models.Customer `json:"customers"`
	Errors    []string           `json:"errors"`
}

// ProductInput represents a request to create or update a product
type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Validate checks name, then price, then stock
func (in *ProductInput) Validate() error {
	if err := validation.Required("name", in.Name); err != nil {
		return err
	}
	if err := validation.Price(in.Price); err != nil {
		return err
	}
	return validation.Stock(in.Stock)
}

// OrderInput represents a request to create an order
type OrderInput struct {
	CustomerID int64      `json:"customer_id"`
	ProductIDs []int64    `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

// UpdateOrderStatusRequest represents a request to change an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Validate performs validation on the status request
func (r *UpdateOrderStatusRequest) Validate() error {
	if !models.IsValidOrderStatus(r.Status) {
		return models.ErrInvalidInputWithMsg("status", "status must be one of pending, completed, cancelled")
	}
	return nil
}

// RestockRequest overrides the low-stock threshold and restock amount
type RestockRequest struct {
	Threshold *int `json:"threshold,omitempty"`
	Amount    *int `json:"amount,omitempty"`
}

// Validate fills in defaults and rejects negative values. Only products with
// stock below threshold are restocked, so threshold+amount bounds the new stock.
func (r *RestockRequest) Validate() (threshold, amount int, err error) {
	threshold, amount = models.DefaultLowStockThreshold, models.DefaultRestockAmount
	if r.Threshold != nil {
		threshold = *r.Threshold
	}
	if r.Amount != nil {
		amount = *r.Amount
	}
	if threshold < 0 {
		return 0, 0, models.ErrMustBeNonNegativeWithMsg("threshold", "threshold cannot be negative")
	}
	if amount <= 0 {
		return 0, 0, models.ErrMustBePositiveWithMsg("amount", "amount must be positive")
	}
	if int64(threshold)+int64(amount) > validation.MaxStock {
		return 0, 0, models.ErrInvalidInputWithMsg("amount",
			fmt.Sprintf("threshold plus amount must be at most %d", validation.MaxStock))
	}
	return threshold, amount, nil
}

// RestockResult represents the outcome of a low-stock restock
type RestockResult struct {
	Success         string            `json:"success"`
	UpdatedProducts []*models.Product `json:"updated_products"`
}

// CustomerListResult represents customer list results
type CustomerListResult struct {
	Data       []*models.Customer       `json:"data"`
	TotalCount int64                    `json:"total_count"`
	Pagination *models.PaginationResult `json:"pagination,omitempty"`
}

// ProductListResult represents product list results
type ProductListResult struct {
	Data       []*models.Product        `json:"data"`
	TotalCount int64                    `json:"total_count"`
	Pagination *models.PaginationResult `json:"pagination,omitempty"`
}

// OrderListResult represents order list results
type OrderListResult struct {
	Data       []*models.Order          `json:"data"`
	TotalCount int64                    `json:"total_count"`
	Pagination *models.PaginationResult `json:"pagination,omitempty"`
}

// paginationFor returns pagination metadata when the caller asked for a page
func paginationFor(page, pageSize int, totalCount int64) *models.PaginationResult {
	if !models.IsPaginated(page, pageSize) {
		return nil
	}
	models.ValidateAndSetDefaults(&page, &pageSize)
	pagination := models.NewPaginationResult(page, pageSize, totalCount)
	return &pagination
}
