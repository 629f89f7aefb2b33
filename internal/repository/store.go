package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store gives access to every repository and runs work atomically.
//
// WithTx runs fn against a Store bound to one transaction and commits when fn
// returns nil. Calling WithTx on a Store that is already inside a transaction
// opens a savepoint, so a failed nested call undoes only its own writes.
type Store interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
	Reports() ReportRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// sqlStore implements Store using PostgreSQL
type sqlStore struct {
	db    *sql.DB
	tx    *sql.Tx
	depth int
}

// NewStore creates a new PostgreSQL-backed store
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) conn() DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *sqlStore) Customers() CustomerRepository { return NewCustomerRepository(s.conn()) }
func (s *sqlStore) Products() ProductRepository   { return NewProductRepository(s.conn()) }
func (s *sqlStore) Orders() OrderRepository       { return NewOrderRepository(s.conn()) }
func (s *sqlStore) Reports() ReportRepository     { return NewReportRepository(s.conn()) }

// WithTx runs fn inside a transaction, or a savepoint when already in one
func (s *sqlStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return s.withSavepoint(ctx, fn)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Rollback is safe to call even after Commit
	}()

	if err := fn(&sqlStore{db: s.db, tx: tx, depth: 1}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *sqlStore) withSavepoint(ctx context.Context, fn func(tx Store) error) error {
	name := fmt.Sprintf("sp_%d", s.depth)

	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(&sqlStore{db: s.db, tx: s.tx, depth: s.depth + 1}); err != nil {
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("failed to roll back savepoint after %v: %w", err, rbErr)
		}
		return err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}

	return nil
}
