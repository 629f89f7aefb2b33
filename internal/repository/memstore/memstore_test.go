package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

func newProduct(name, price string, stock int) *models.Product {
	return &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
}

func TestWithTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := New()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Customers().Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, total, err := store.Customers().List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestWithTx_SavepointKeepsOuterWrites(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.WithTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Customers().Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"}))

		inner := tx.WithTx(ctx, func(sp repository.Store) error {
			require.NoError(t, sp.Customers().Create(ctx, &models.Customer{Name: "Bob", Email: "bob@example.com"}))
			return errors.New("row rejected")
		})
		require.Error(t, inner)

		return tx.Customers().Create(ctx, &models.Customer{Name: "Carol", Email: "carol@example.com"})
	})
	require.NoError(t, err)

	customers, total, err := store.Customers().List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Alice", customers[0].Name)
	assert.Equal(t, "Carol", customers[1].Name)
}

func TestWithTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().WithTx(ctx, func(tx repository.Store) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCustomers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := New().Customers()

	require.NoError(t, repo.Create(ctx, &models.Customer{Name: "Alice", Email: "alice@example.com"}))
	err := repo.Create(ctx, &models.Customer{Name: "Other", Email: "alice@example.com"})
	require.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestCustomers_ReturnedPhoneIsACopy(t *testing.T) {
	ctx := context.Background()
	repo := New().Customers()

	phone := "+1234567890"
	c := &models.Customer{Name: "Alice", Email: "alice@example.com", Phone: &phone}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	*got.Phone = "changed"

	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "+1234567890", *again.Phone)
}

func TestProducts_GetByIDsSkipsMissingAndDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := New().Products()

	a, b := newProduct("A", "1.00", 1), newProduct("B", "2.00", 2)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	found, err := repo.GetByIDs(ctx, []int64{b.ID, 99, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, a.ID, found[0].ID)
	assert.Equal(t, b.ID, found[1].ID)
}

func TestProducts_RestockBelow(t *testing.T) {
	ctx := context.Background()
	repo := New().Products()

	low, edge, high := newProduct("Low", "1.00", 3), newProduct("Edge", "1.00", 10), newProduct("High", "1.00", 50)
	for _, p := range []*models.Product{low, edge, high} {
		require.NoError(t, repo.Create(ctx, p))
	}

	updated, err := repo.RestockBelow(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "Low", updated[0].Name)
	assert.Equal(t, 13, updated[0].Stock)

	again, err := repo.RestockBelow(ctx, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestOrders_CarryCurrentCustomerAndProducts(t *testing.T) {
	ctx := context.Background()
	store := New()

	customer := &models.Customer{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, store.Customers().Create(ctx, customer))
	laptop, mouse := newProduct("Laptop", "999.99", 10), newProduct("Mouse", "25.50", 50)
	require.NoError(t, store.Products().Create(ctx, laptop))
	require.NoError(t, store.Products().Create(ctx, mouse))

	order := &models.Order{
		CustomerID:  customer.ID,
		Products:    []*models.Product{mouse, laptop},
		TotalAmount: decimal.RequireFromString("1025.49"),
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, store.Orders().Create(ctx, order))

	got, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Alice", got.Customer.Name)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Laptop", got.Products[0].Name)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("1025.49")))

	byProduct, total, err := store.Orders().List(ctx, models.OrderFilter{ProductID: mouse.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, order.ID, byProduct[0].ID)
}

func TestOrders_CreateRejectsMissingReferences(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Orders().Create(ctx, &models.Order{CustomerID: 42})
	require.Error(t, err)

	customer := &models.Customer{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	err = store.Orders().Create(ctx, &models.Order{
		CustomerID: customer.ID,
		Products:   []*models.Product{{ID: 7}},
	})
	require.Error(t, err)
}

func TestCustomers_DeleteCascadesToOrders(t *testing.T) {
	ctx := context.Background()
	store := New()

	customer := &models.Customer{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, store.Customers().Create(ctx, customer))
	p := newProduct("Laptop", "999.99", 10)
	require.NoError(t, store.Products().Create(ctx, p))
	require.NoError(t, store.Orders().Create(ctx, &models.Order{
		CustomerID:  customer.ID,
		Products:    []*models.Product{p},
		TotalAmount: p.Price,
		Status:      models.OrderStatusPending,
	}))

	require.NoError(t, store.Customers().Delete(ctx, customer.ID))

	_, total, err := store.Orders().List(ctx, models.OrderFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	err = store.Customers().Delete(ctx, customer.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestReports_Summary(t *testing.T) {
	ctx := context.Background()
	store := New()

	summary, err := store.Reports().Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.CustomerCount)
	assert.True(t, summary.TotalRevenue.IsZero())
}
