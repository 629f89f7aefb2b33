package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func seedProduct(t *testing.T, svc ProductService, name, price string, stock int) *models.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func seedCustomer(t *testing.T, svc CustomerService, name, email string) *models.Customer {
	t.Helper()
	res, err := svc.Create(context.Background(), CustomerInput{Name: name, Email: email})
	require.NoError(t, err)
	return res.Customer
}

// errStoreDown simulates a storage outage
var errStoreDown = errors.New("store unavailable")

// failingStore wraps a Store and fails the customer insert number failOn
// (1-based) with a plain storage error
type failingStore struct {
	repository.Store
	inserts *int
	failOn  int
}

func (s *failingStore) Customers() repository.CustomerRepository {
	return &failingCustomers{CustomerRepository: s.Store.Customers(), store: s}
}

func (s *failingStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(&failingStore{Store: tx, inserts: s.inserts, failOn: s.failOn})
	})
}

type failingCustomers struct {
	repository.CustomerRepository
	store *failingStore
}

func (c *failingCustomers) Create(ctx context.Context, customer *models.Customer) error {
	*c.store.inserts++
	if *c.store.inserts == c.store.failOn {
		return errStoreDown
	}
	return c.CustomerRepository.Create(ctx, customer)
}
