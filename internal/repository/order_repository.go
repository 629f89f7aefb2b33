package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// orderRepository implements OrderRepository using PostgreSQL
type orderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.customer_id, o.total_amount, o.order_date, o.status,
	       c.id, c.name, c.email, c.phone, c.created_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

// Create inserts an order and its product associations. It must run inside
// a transaction so the order never exists without its products.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (customer_id, total_amount, order_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(
		ctx,
		query,
		order.CustomerID,
		order.TotalAmount,
		order.OrderDate,
		order.Status,
	).Scan(&order.ID)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	linkQuery := `
		INSERT INTO order_products (order_id, product_id)
		SELECT $1, unnest($2::bigint[])`

	if _, err := r.db.ExecContext(ctx, linkQuery, order.ID, pq.Array(order.ProductIDs())); err != nil {
		return fmt.Errorf("failed to associate order products: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its customer and products
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := orderSelect + ` WHERE o.id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.attachProducts(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// List retrieves orders with optional filtering, ordering and pagination
func (r *orderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	var b filterBuilder

	if filter.CustomerID > 0 {
		b.add("o.customer_id = $%d", filter.CustomerID)
	}
	if filter.CustomerNameContains != "" {
		b.contains("c.name", filter.CustomerNameContains)
	}
	if filter.ProductID > 0 {
		b.add("EXISTS (SELECT 1 FROM order_products op WHERE op.order_id = o.id AND op.product_id = $%d)", filter.ProductID)
	}
	if filter.Status != "" {
		b.add("o.status = $%d", filter.Status)
	}
	if filter.OrderDateGte != nil {
		b.add("o.order_date >= $%d", *filter.OrderDateGte)
	}
	if filter.OrderDateLte != nil {
		b.add("o.order_date <= $%d", *filter.OrderDateLte)
	}
	if filter.TotalGte != nil {
		b.add("o.total_amount >= $%d", *filter.TotalGte)
	}
	if filter.TotalLte != nil {
		b.add("o.total_amount <= $%d", *filter.TotalLte)
	}

	// Get total count
	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM orders o JOIN customers c ON c.id = o.customer_id` + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := orderSelect + b.where() + models.OrderByClause(filter.OrderBy, models.OrderSortFields)
	query, args := b.paginate(query, filter.Page, filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachProducts(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, totalCount, nil
}

// UpdateStatus updates only the status of an order
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}

	return nil
}

// attachProducts loads the products of every order in one query
func (r *orderRepository) attachProducts(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Order, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Products = []*models.Product{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `
		SELECT op.order_id, p.id, p.name, p.price, p.stock, p.created_at
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = ANY($1)
		ORDER BY op.order_id, p.id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int64
		product := &models.Product{}
		if err := rows.Scan(
			&orderID,
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan order product: %w", err)
		}
		if order, ok := byID[orderID]; ok {
			order.Products = append(order.Products, product)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order products: %w", err)
	}

	return nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{Customer: &models.Customer{}}
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.TotalAmount,
		&order.OrderDate,
		&order.Status,
		&order.Customer.ID,
		&order.Customer.Name,
		&order.Customer.Email,
		&order.Customer.Phone,
		&order.Customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}
