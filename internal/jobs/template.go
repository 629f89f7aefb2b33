package jobs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// DefaultReminderTemplate renders "Order <id> -> <email>"
const DefaultReminderTemplate = "Order {order_id} -> {email}"

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

var reminderPlaceholders = map[string]func(o *models.Order) string{
	"order_id": func(o *models.Order) string { return strconv.FormatInt(o.ID, 10) },
	"email": func(o *models.Order) string {
		if o.Customer == nil {
			return ""
		}
		return o.Customer.Email
	},
	"customer_name": func(o *models.Order) string {
		if o.Customer == nil {
			return ""
		}
		return o.Customer.Name
	},
	"total":      func(o *models.Order) string { return o.TotalAmount.StringFixed(2) },
	"order_date": func(o *models.Order) string { return o.OrderDate.Format("2006-01-02") },
}

// ReminderTemplate renders a reminder line for an order. Placeholders are
// {order_id}, {email}, {customer_name}, {total} and {order_date}.
type ReminderTemplate struct {
	text string
}

// ParseReminderTemplate validates text and returns the template
func ParseReminderTemplate(text string) (*ReminderTemplate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("reminder template cannot be empty")
	}

	var invalid []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := reminderPlaceholders[match[1]]; !ok {
			invalid = append(invalid, match[1])
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid placeholders in reminder template: %s", strings.Join(invalid, ", "))
	}

	return &ReminderTemplate{text: text}, nil
}

// Render replaces every placeholder with the order's values
func (t *ReminderTemplate) Render(order *models.Order) string {
	return placeholderPattern.ReplaceAllStringFunc(t.text, func(match string) string {
		return reminderPlaceholders[strings.Trim(match, "{}")](order)
	})
}
