package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// parseID reads the {id} route parameter
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func respondInvalidID(w http.ResponseWriter, resource string) {
	respondError(w, http.StatusBadRequest, ErrorDetail{
		Code:    "INVALID_ID",
		Message: fmt.Sprintf("Invalid %s ID", resource),
		Field:   "id",
	})
}

// queryParams parses typed query parameters and keeps the first error
type queryParams struct {
	values url.Values
	err    error
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) fail(name, format string) {
	if q.err == nil {
		q.err = models.ErrInvalidInputWithMsg(name, fmt.Sprintf("%s must be %s", name, format))
	}
}

func (q *queryParams) getString(name string) string {
	return q.values.Get(name)
}

func (q *queryParams) getInt(name string) int {
	raw := q.values.Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		q.fail(name, "a non-negative integer")
		return 0
	}
	return n
}

func (q *queryParams) getOptionalInt(name string) *int {
	if q.values.Get(name) == "" {
		return nil
	}
	n := q.getInt(name)
	return &n
}

func (q *queryParams) getID(name string) int64 {
	raw := q.values.Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		q.fail(name, "a positive integer")
		return 0
	}
	return n
}

func (q *queryParams) getDecimal(name string) *decimal.Decimal {
	raw := q.values.Get(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		q.fail(name, "a decimal number")
		return nil
	}
	return &d
}

// getTime accepts RFC 3339 timestamps or plain YYYY-MM-DD dates, which are
// read as UTC midnight
func (q *queryParams) getTime(name string) *time.Time {
	t, _ := q.parseTime(name)
	return t
}

// getTimeUpTo is getTime for an inclusive upper bound: a plain date covers
// the whole UTC day
func (q *queryParams) getTimeUpTo(name string) *time.Time {
	t, dateOnly := q.parseTime(name)
	if t != nil && dateOnly {
		end := t.Add(24*time.Hour - time.Microsecond)
		return &end
	}
	return t
}

func (q *queryParams) parseTime(name string) (*time.Time, bool) {
	raw := q.values.Get(name)
	if raw == "" {
		return nil, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, false
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, true
	}
	q.fail(name, "an RFC 3339 timestamp or YYYY-MM-DD date")
	return nil, false
}

func (q *queryParams) getOrderBy(allowed map[string]string) []models.SortField {
	fields, err := models.ParseOrderBy(q.values.Get("order_by"), allowed)
	if err != nil && q.err == nil {
		q.err = err
	}
	return fields
}
