package repository

import (
	"fmt"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterBuilder accumulates WHERE conditions with numbered placeholders.
// Each format string takes the placeholder number as its only verb.
type filterBuilder struct {
	clauses []string
	args    []any
}

func (b *filterBuilder) add(format string, arg any) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, fmt.Sprintf(format, len(b.args)))
}

func (b *filterBuilder) contains(column, value string) {
	b.add(column+" ILIKE '%%' || $%d || '%%'", likeEscaper.Replace(value))
}

func (b *filterBuilder) prefix(column, value string) {
	b.add(column+" LIKE $%d || '%%'", likeEscaper.Replace(value))
}

func (b *filterBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// paginate appends LIMIT/OFFSET when a page was requested
func (b *filterBuilder) paginate(query string, page, pageSize int) (string, []any) {
	args := append([]any{}, b.args...)
	if !models.IsPaginated(page, pageSize) {
		return query, args
	}

	models.ValidateAndSetDefaults(&page, &pageSize)
	offset := models.CalculateOffset(page, pageSize)

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)
	return query, args
}
