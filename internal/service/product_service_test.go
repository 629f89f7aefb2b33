package service

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository/memstore"
)

func TestProductService_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   ProductInput
		wantErr error
	}{
		{name: "minimum price and zero stock", input: ProductInput{Name: "Sticker", Price: decimal.RequireFromString("0.01")}},
		{name: "regular", input: ProductInput{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10}},
		{name: "zero price", input: ProductInput{Name: "Free", Price: decimal.Zero}, wantErr: models.ErrMustBePositive},
		{name: "negative price", input: ProductInput{Name: "Refund", Price: decimal.NewFromInt(-5)}, wantErr: models.ErrMustBePositive},
		{name: "three decimal places", input: ProductInput{Name: "Fuel", Price: decimal.RequireFromString("1.999")}, wantErr: models.ErrInvalidFormat},
		{name: "negative stock", input: ProductInput{Name: "Ghost", Price: decimal.NewFromInt(1), Stock: -1}, wantErr: models.ErrMustBeNonNegative},
		{name: "missing name", input: ProductInput{Price: decimal.NewFromInt(1)}, wantErr: models.ErrInvalidInput},
		{name: "price overflows column", input: ProductInput{Name: "Yacht", Price: decimal.RequireFromString("100000000.00")}, wantErr: models.ErrInvalidFormat},
		{name: "stock overflows column", input: ProductInput{Name: "Bolt", Price: decimal.NewFromInt(1), Stock: math.MaxInt32 + 1}, wantErr: models.ErrInvalidInput},
		{
			name:    "price is checked before stock",
			input:   ProductInput{Name: "Both", Price: decimal.Zero, Stock: -1},
			wantErr: models.ErrMustBePositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProductService(memstore.New(), testLogger())

			p, err := svc.Create(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, p.ID)
			assert.True(t, tt.input.Price.Equal(p.Price))
			assert.Equal(t, tt.input.Stock, p.Stock)
		})
	}
}

func TestProductService_Update(t *testing.T) {
	svc := NewProductService(memstore.New(), testLogger())
	ctx := context.Background()

	p := seedProduct(t, svc, "Mouse", "25.50", 50)

	updated, err := svc.Update(ctx, p.ID, ProductInput{Name: "Mouse Pro", Price: decimal.RequireFromString("30.00"), Stock: 40})
	require.NoError(t, err)
	assert.Equal(t, "Mouse Pro", updated.Name)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Stock)
	assert.True(t, decimal.RequireFromString("30").Equal(got.Price))

	_, err = svc.Update(ctx, 999, ProductInput{Name: "Nope", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Update(ctx, p.ID, ProductInput{Name: "Mouse", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, models.ErrMustBePositive)
}

func TestProductService_RestockLowStock(t *testing.T) {
	svc := NewProductService(memstore.New(), testLogger())
	ctx := context.Background()

	seedProduct(t, svc, "Laptop", "999.99", 3)
	seedProduct(t, svc, "Mouse", "25.50", 50)
	seedProduct(t, svc, "Cable", "5.00", 0)

	res, err := svc.RestockLowStock(ctx, RestockRequest{})
	require.NoError(t, err)
	require.Len(t, res.UpdatedProducts, 2)
	assert.Equal(t, "Laptop", res.UpdatedProducts[0].Name)
	assert.Equal(t, 13, res.UpdatedProducts[0].Stock)
	assert.Equal(t, "Cable", res.UpdatedProducts[1].Name)
	assert.Equal(t, 10, res.UpdatedProducts[1].Stock)
	assert.NotEmpty(t, res.Success)

	again, err := svc.RestockLowStock(ctx, RestockRequest{})
	require.NoError(t, err)
	assert.Empty(t, again.UpdatedProducts)
}

func TestProductService_RestockLowStock_Overrides(t *testing.T) {
	svc := NewProductService(memstore.New(), testLogger())
	ctx := context.Background()

	seedProduct(t, svc, "Keyboard", "45.00", 30)

	res, err := svc.RestockLowStock(ctx, RestockRequest{Threshold: intPtr(31), Amount: intPtr(5)})
	require.NoError(t, err)
	require.Len(t, res.UpdatedProducts, 1)
	assert.Equal(t, 35, res.UpdatedProducts[0].Stock)

	_, err = svc.RestockLowStock(ctx, RestockRequest{Amount: intPtr(0)})
	assert.ErrorIs(t, err, models.ErrMustBePositive)

	_, err = svc.RestockLowStock(ctx, RestockRequest{Threshold: intPtr(-1)})
	assert.ErrorIs(t, err, models.ErrMustBeNonNegative)

	// restocked stock must still fit an INTEGER column
	_, err = svc.RestockLowStock(ctx, RestockRequest{Threshold: intPtr(10), Amount: intPtr(math.MaxInt32)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	res, err = svc.RestockLowStock(ctx, RestockRequest{Threshold: intPtr(31), Amount: intPtr(math.MaxInt32 - 31)})
	require.NoError(t, err)
	assert.Empty(t, res.UpdatedProducts)
}

func TestProductService_List(t *testing.T) {
	svc := NewProductService(memstore.New(), testLogger())
	ctx := context.Background()

	seedProduct(t, svc, "Laptop", "999.99", 10)
	seedProduct(t, svc, "Mouse", "25.50", 50)
	seedProduct(t, svc, "Keyboard", "45.00", 30)

	minPrice := decimal.RequireFromString("30")
	res, err := svc.List(ctx, models.ProductFilter{
		PriceGte: &minPrice,
		OrderBy:  []models.SortField{{Field: "price", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Laptop", res.Data[0].Name)
	assert.Equal(t, "Keyboard", res.Data[1].Name)

	res, err = svc.List(ctx, models.ProductFilter{StockBelow: intPtr(30)})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Laptop", res.Data[0].Name)
}
