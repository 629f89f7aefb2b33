package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate applies the CRM schema. Every statement is idempotent, so it is
// safe to run on each start.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Reset removes every customer, product and order and restarts the id sequences
func (db *DB) Reset(ctx context.Context) error {
	query := `TRUNCATE order_products, orders, customers, products RESTART IDENTITY CASCADE`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	return nil
}
