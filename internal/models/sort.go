package models

import (
	"fmt"
	"strings"
)

// SortField is one key of a multi-key ordering
type SortField struct {
	Field string
	Desc  bool
}

// ParseOrderBy parses a comma-separated list such as "-price,name" into sort
// fields. Every key must appear in allowed; a leading '-' sorts descending.
func ParseOrderBy(raw string, allowed map[string]string) ([]SortField, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	fields := make([]SortField, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")

		if _, ok := allowed[name]; !ok {
			return nil, ErrInvalidInputWithMsg("order_by", fmt.Sprintf("cannot order by %q", name))
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		fields = append(fields, SortField{Field: name, Desc: desc})
	}

	return fields, nil
}

// OrderByClause renders sort fields as a SQL ORDER BY clause using the column
// mapping in allowed. id is always appended as a tiebreaker.
func OrderByClause(fields []SortField, allowed map[string]string) string {
	idColumn := allowed["id"]
	clauses := make([]string, 0, len(fields)+1)
	hasID := false

	for _, f := range fields {
		column, ok := allowed[f.Field]
		if !ok {
			continue
		}
		if f.Field == "id" {
			hasID = true
		}
		direction := "ASC"
		if f.Desc {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}

	if !hasID {
		clauses = append(clauses, idColumn+" ASC")
	}

	return " ORDER BY " + strings.Join(clauses, ", ")
}
