package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/validation"
)

// CustomerCreatedMessage is returned alongside a newly created customer
const CustomerCreatedMessage = "Customer created successfully"

// CustomerService handles customer business logic
type CustomerService interface {
	Create(ctx context.Context, input CustomerInput) (*CreateCustomerResult, error)
	BulkCreate(ctx context.Context, inputs []CustomerInput) (*BulkCreateCustomersResult, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error)
	Delete(ctx context.Context, id int64) error
}

type customerService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store repository.Store, logger *slog.Logger) CustomerService {
	return &customerService{
		store:  store,
		logger: logger,
	}
}

// Create validates and stores a single customer
func (s *customerService) Create(ctx context.Context, input CustomerInput) (*CreateCustomerResult, error) {
	customer, err := s.create(ctx, s.store, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("email", customer.Email),
	)

	return &CreateCustomerResult{
		Customer: customer,
		Message:  CustomerCreatedMessage,
	}, nil
}

// BulkCreate creates every valid input and reports the rest. Each row runs in
// its own savepoint inside one transaction: a rejected row leaves its siblings
// intact, while a store failure rolls back the whole call.
func (s *customerService) BulkCreate(ctx context.Context, inputs []CustomerInput) (*BulkCreateCustomersResult, error) {
	var result *BulkCreateCustomersResult

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		result = &BulkCreateCustomersResult{
			Customers: []*models.Customer{},
			Errors:    []string{},
		}

		for _, input := range inputs {
			var created *models.Customer
			err := tx.WithTx(ctx, func(row repository.Store) error {
				customer, err := s.create(ctx, row, input)
				created = customer
				return err
			})

			var appErr *models.AppError
			switch {
			case err == nil:
				result.Customers = append(result.Customers, created)
			case errors.As(err, &appErr):
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", input.Email, models.Reason(err)))
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("bulk customer creation rolled back",
			slog.Int("inputs", len(inputs)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to bulk create customers: %w", err)
	}

	s.logger.Info("customers bulk created",
		slog.Int("created", len(result.Customers)),
		slog.Int("rejected", len(result.Errors)),
	)

	return result, nil
}

// create runs the customer checks in order and inserts through store
func (s *customerService) create(ctx context.Context, store repository.Store, input CustomerInput) (*models.Customer, error) {
	if err := validation.Required("name", input.Name); err != nil {
		return nil, err
	}
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validation.UniqueEmail(ctx, store.Customers(), input.Email); err != nil {
		return nil, err
	}
	if err := validation.Phone(input.Phone); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:  strings.TrimSpace(input.Name),
		Email: input.Email,
	}
	if input.Phone != nil && *input.Phone != "" {
		phone := *input.Phone
		customer.Phone = &phone
	}

	if err := store.Customers().Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer",
			slog.String("email", input.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.store.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// List retrieves customers with optional filtering, ordering and pagination
func (s *customerService) List(ctx context.Context, filter models.CustomerFilter) (*CustomerListResult, error) {
	customers, totalCount, err := s.store.Customers().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return &CustomerListResult{
		Data:       customers,
		TotalCount: totalCount,
		Pagination: paginationFor(filter.Page, filter.PageSize, totalCount),
	}, nil
}

// Delete removes a customer and, through the store, their orders
func (s *customerService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Customers().Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted",
		slog.Int64("customer_id", id),
	)

	return nil
}
