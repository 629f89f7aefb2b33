package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository/memstore"
)

type orderFixture struct {
	customers CustomerService
	products  ProductService
	orders    OrderService
	reports   ReportService

	alice    *models.Customer
	laptop   *models.Product
	mouse    *models.Product
	keyboard *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	store := memstore.New()
	f := &orderFixture{
		customers: NewCustomerService(store, testLogger()),
		products:  NewProductService(store, testLogger()),
		orders:    NewOrderService(store, testLogger()),
		reports:   NewReportService(store),
	}
	f.alice = seedCustomer(t, f.customers, "Alice", "alice@example.com")
	f.laptop = seedProduct(t, f.products, "Laptop", "999.99", 10)
	f.mouse = seedProduct(t, f.products, "Mouse", "25.50", 50)
	f.keyboard = seedProduct(t, f.products, "Keyboard", "45.00", 30)
	return f
}

func TestOrderService_Create_TotalsProductPrices(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	before := time.Now().UTC()
	order, err := f.orders.Create(ctx, OrderInput{
		CustomerID: f.alice.ID,
		ProductIDs: []int64{f.laptop.ID, f.mouse.ID},
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1025.49").Equal(order.TotalAmount), "total was %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.OrderDate.Before(before))
	assert.Equal(t, []int64{f.laptop.ID, f.mouse.ID}, order.ProductIDs())

	got, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(got.TotalAmount))
	require.NotNil(t, got.Customer)
	assert.Equal(t, "alice@example.com", got.Customer.Email)
	assert.Len(t, got.Products, 2)
}

func TestOrderService_Create_ExplicitOrderDate(t *testing.T) {
	f := newOrderFixture(t)

	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	order, err := f.orders.Create(context.Background(), OrderInput{
		CustomerID: f.alice.ID,
		ProductIDs: []int64{f.keyboard.ID},
		OrderDate:  &date,
	})
	require.NoError(t, err)
	assert.True(t, date.Equal(order.OrderDate))
}

func TestOrderService_Create_Errors(t *testing.T) {
	f := newOrderFixture(t)

	tests := []struct {
		name    string
		input   OrderInput
		wantErr error
		reason  string
	}{
		{
			name:    "unknown customer",
			input:   OrderInput{CustomerID: 999, ProductIDs: []int64{f.laptop.ID}},
			wantErr: models.ErrInvalidReference,
			reason:  "Invalid customer ID",
		},
		{
			name:    "no products resolve",
			input:   OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{998, 999}},
			wantErr: models.ErrNoneFound,
			reason:  "No valid products found",
		},
		{
			name:    "empty product list",
			input:   OrderInput{CustomerID: f.alice.ID},
			wantErr: models.ErrNoneFound,
			reason:  "No valid products found",
		},
		{
			name:    "some products missing",
			input:   OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{f.laptop.ID, 999}},
			wantErr: models.ErrSomeInvalid,
			reason:  "Some product IDs are invalid",
		},
		{
			name:    "duplicate product id",
			input:   OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{f.laptop.ID, f.laptop.ID}},
			wantErr: models.ErrSomeInvalid,
			reason:  "Some product IDs are invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.Create(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.reason, models.Reason(err))
		})
	}

	list, err := f.orders.List(context.Background(), models.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Data, "failed creations must not leave orders behind")
}

func TestOrderService_TotalIsFixedAtCreation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{f.mouse.ID}})
	require.NoError(t, err)

	_, err = f.products.Update(ctx, f.mouse.ID, ProductInput{Name: "Mouse", Price: decimal.RequireFromString("99.00"), Stock: 50})
	require.NoError(t, err)

	got, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.50").Equal(got.TotalAmount))
}

func TestOrderService_UpdateStatusAndList(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	bob := seedCustomer(t, f.customers, "Bob", "bob@example.com")

	first, err := f.orders.Create(ctx, OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{f.laptop.ID}})
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, OrderInput{CustomerID: bob.ID, ProductIDs: []int64{f.mouse.ID, f.keyboard.ID}})
	require.NoError(t, err)

	updated, err := f.orders.UpdateStatus(ctx, first.ID, UpdateOrderStatusRequest{Status: models.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	_, err = f.orders.UpdateStatus(ctx, first.ID, UpdateOrderStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.orders.UpdateStatus(ctx, 999, UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	assert.ErrorIs(t, err, models.ErrNotFound)

	pending, err := f.orders.List(ctx, models.OrderFilter{Status: models.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending.Data, 1)
	assert.Equal(t, bob.ID, pending.Data[0].CustomerID)

	byProduct, err := f.orders.List(ctx, models.OrderFilter{ProductID: f.keyboard.ID})
	require.NoError(t, err)
	require.Len(t, byProduct.Data, 1)

	byName, err := f.orders.List(ctx, models.OrderFilter{CustomerNameContains: "ali"})
	require.NoError(t, err)
	require.Len(t, byName.Data, 1)
	assert.Equal(t, first.ID, byName.Data[0].ID)

	_, err = f.orders.List(ctx, models.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestReportService_Summary(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	empty, err := f.reports.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, empty.CustomerCount)
	assert.Zero(t, empty.OrderCount)
	assert.True(t, empty.TotalRevenue.IsZero())

	_, err = f.orders.Create(ctx, OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{f.laptop.ID, f.mouse.ID}})
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, OrderInput{CustomerID: f.alice.ID, ProductIDs: []int64{f.keyboard.ID}})
	require.NoError(t, err)

	summary, err := f.reports.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.OrderCount)
	assert.True(t, decimal.RequireFromString("1070.49").Equal(summary.TotalRevenue))

	assert.Equal(t, "Hello, CRM!", f.reports.Hello(ctx))
}
