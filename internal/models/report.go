package models

import "github.com/shopspring/decimal"

// Summary holds the CRM-wide aggregates used by the weekly report
type Summary struct {
	CustomerCount int64           `json:"customer_count"`
	OrderCount    int64           `json:"order_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}
