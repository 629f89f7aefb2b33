package models

import "time"

// Customer represents a customer in the system
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	NameContains  string
	EmailContains string
	PhonePrefix   string
	OrderBy       []SortField
	Page          int
	PageSize      int
}

// CustomerSortFields maps the public sort keys to customer columns
var CustomerSortFields = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}
