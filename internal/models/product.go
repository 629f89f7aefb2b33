package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Low-stock remediation defaults
const (
	DefaultLowStockThreshold = 10
	DefaultRestockAmount     = 10
)

// Product represents a product that can be ordered
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductFilter holds filtering options for listing products
type ProductFilter struct {
	NameContains string
	PriceGte     *decimal.Decimal
	PriceLte     *decimal.Decimal
	StockGte     *int
	StockLte     *int
	StockBelow   *int
	OrderBy      []SortField
	Page         int
	PageSize     int
}

// ProductSortFields maps the public sort keys to product columns
var ProductSortFields = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}
