// Package validation holds the field-level checks run before a write is
// committed. Every function returns nil or a *models.AppError wrapping one of
// the models error kinds.
package validation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,63}$`)
	phonePattern = regexp.MustCompile(`^(\+\d{1,15}|\d{3}-\d{3}-\d{4})$`)
)

// Storage limits
const (
	MaxNameLength  = 255
	MaxEmailLength = 254
	PriceScale     = 2
	MaxStock       = math.MaxInt32
)

// MaxPrice is the exclusive upper bound of a NUMERIC(10,2) price
var MaxPrice = decimal.New(1, 8)

// EmailLookup finds a customer by email. Implementations return an error
// wrapping models.ErrNotFound when no customer has the address.
type EmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// Required checks that a text field is present and fits its column
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return models.ErrInvalidInputWithMsg(field, fmt.Sprintf("%s is required", field))
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		return models.ErrInvalidInputWithMsg(field, fmt.Sprintf("%s must be at most %d characters", field, MaxNameLength))
	}
	return nil
}

// Email checks email syntax
func Email(email string) error {
	if len(email) > MaxEmailLength || !emailPattern.MatchString(email) {
		return models.ErrInvalidFormatWithMsg("email", "Invalid email format")
	}
	return nil
}

// UniqueEmail checks that no stored customer already uses email
func UniqueEmail(ctx context.Context, lookup EmailLookup, email string) error {
	existing, err := lookup.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return models.ErrAlreadyExistsWithMsg("email", "Email already exists")
	}
	return nil
}

// Phone checks phone format. An absent phone is always valid.
func Phone(phone *string) error {
	if phone == nil || *phone == "" {
		return nil
	}
	if !phonePattern.MatchString(*phone) {
		return models.ErrInvalidFormatWithMsg("phone", "Phone number must be in the format +1234567890 or 123-456-7890")
	}
	return nil
}

// Price checks that a price is strictly positive, below MaxPrice and has at
// most two decimal places
func Price(price decimal.Decimal) error {
	if !price.IsPositive() {
		return models.ErrMustBePositiveWithMsg("price", "Price must be positive")
	}
	if price.GreaterThanOrEqual(MaxPrice) {
		return models.ErrInvalidFormatWithMsg("price", fmt.Sprintf("Price must be less than %s", MaxPrice))
	}
	if !price.Equal(price.Truncate(PriceScale)) {
		return models.ErrInvalidFormatWithMsg("price", "Price must have at most 2 decimal places")
	}
	return nil
}

// Stock checks that a stock level is not negative and fits an INTEGER column
func Stock(stock int) error {
	if stock < 0 {
		return models.ErrMustBeNonNegativeWithMsg("stock", "Stock cannot be negative")
	}
	if stock > MaxStock {
		return models.ErrInvalidInputWithMsg("stock", fmt.Sprintf("Stock must be at most %d", MaxStock))
	}
	return nil
}

// ProductIDs checks a product id resolution: found is the number of products
// that exist for the requested ids.
func ProductIDs(requested []int64, found int) error {
	if found == 0 {
		return models.ErrNoneFoundWithMsg("product_ids", "No valid products found")
	}
	if found != len(requested) {
		return models.ErrSomeInvalidWithMsg("product_ids", "Some product IDs are invalid")
	}
	return nil
}
