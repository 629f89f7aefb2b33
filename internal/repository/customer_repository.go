package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error)
	Delete(ctx context.Context, id int64) error
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, email, phone, created_at`

// Create inserts a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.Phone,
	).Scan(&customer.ID, &customer.CreatedAt)

	if isUniqueViolation(err) {
		return models.ErrAlreadyExistsWithMsg("email", "Email already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByEmail retrieves a customer by email address
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return customer, nil
}

// List retrieves customers with optional filtering, ordering and pagination
func (r *customerRepository) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	var b filterBuilder

	if filter.NameContains != "" {
		b.contains("name", filter.NameContains)
	}
	if filter.EmailContains != "" {
		b.contains("email", filter.EmailContains)
	}
	if filter.PhonePrefix != "" {
		b.prefix("phone", filter.PhonePrefix)
	}

	// Get total count
	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM customers` + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers` + b.where() +
		models.OrderByClause(filter.OrderBy, models.CustomerSortFields)
	query, args := b.paginate(query, filter.Page, filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, totalCount, nil
}

// Delete removes a customer. Orders of the customer are removed by the
// ON DELETE CASCADE foreign key.
func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}
