package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order represents a customer's purchase of one or more products.
// TotalAmount is fixed at creation and is not recomputed when prices change.
type Order struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customer_id"`
	Customer    *Customer       `json:"customer,omitempty"`
	Products    []*Product      `json:"products"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	Status      string          `json:"status"`
}

// OrderFilter holds filtering options for listing orders
type OrderFilter struct {
	CustomerID           int64
	CustomerNameContains string
	ProductID            int64
	Status               string
	OrderDateGte         *time.Time
	OrderDateLte         *time.Time
	TotalGte             *decimal.Decimal
	TotalLte             *decimal.Decimal
	OrderBy              []SortField
	Page                 int
	PageSize             int
}

// OrderSortFields maps the public sort keys to order columns
var OrderSortFields = map[string]string{
	"id":           "o.id",
	"order_date":   "o.order_date",
	"total_amount": "o.total_amount",
	"status":       "o.status",
	"customer_id":  "o.customer_id",
}

// IsValidOrderStatus checks if the order status is valid
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ProductIDs returns the ids of the order's products in order
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}
