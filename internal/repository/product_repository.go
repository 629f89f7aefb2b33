package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	RestockBelow(ctx context.Context, threshold, amount int) ([]*models.Product, error)
}

// productRepository implements ProductRepository using PostgreSQL
type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new product repository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, price, stock, created_at`

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, price, stock)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Stock,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetByIDs retrieves the products that exist among ids, ordered by id.
// Rows are share-locked so their prices cannot change before the enclosing
// transaction ends.
func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR SHARE`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// List retrieves products with optional filtering, ordering and pagination
func (r *productRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	var b filterBuilder

	if filter.NameContains != "" {
		b.contains("name", filter.NameContains)
	}
	if filter.PriceGte != nil {
		b.add("price >= $%d", *filter.PriceGte)
	}
	if filter.PriceLte != nil {
		b.add("price <= $%d", *filter.PriceLte)
	}
	if filter.StockGte != nil {
		b.add("stock >= $%d", *filter.StockGte)
	}
	if filter.StockLte != nil {
		b.add("stock <= $%d", *filter.StockLte)
	}
	if filter.StockBelow != nil {
		b.add("stock < $%d", *filter.StockBelow)
	}

	// Get total count
	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM products` + b.where()
	if err := r.db.QueryRowContext(ctx, countQuery, b.args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + b.where() +
		models.OrderByClause(filter.OrderBy, models.ProductSortFields)
	query, args := b.paginate(query, filter.Page, filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

// Update updates an existing product
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, stock = $3
		WHERE id = $4
		RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Stock,
		product.ID,
	).Scan(&product.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", product.ID))
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// RestockBelow adds amount to the stock of every product whose stock is below
// threshold and returns the updated products. The read and the write are one
// statement, so concurrent callers cannot lose an increment.
func (r *productRepository) RestockBelow(ctx context.Context, threshold, amount int) ([]*models.Product, error) {
	query := `
		WITH updated AS (
			UPDATE products
			SET stock = stock + $1
			WHERE stock < $2
			RETURNING ` + productColumns + `
		)
		SELECT ` + productColumns + ` FROM updated ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, amount, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to restock products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func collectProducts(rows *sql.Rows) ([]*models.Product, error) {
	products := []*models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
