package models

// Page size bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationResult holds pagination metadata
type PaginationResult struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationResult creates a pagination result
func NewPaginationResult(page, pageSize int, totalCount int64) PaginationResult {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return PaginationResult{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// IsPaginated reports whether the caller asked for a page at all.
// Lists are unrestricted unless a page or page size is given.
func IsPaginated(page, pageSize int) bool {
	return page > 0 || pageSize > 0
}

// ValidateAndSetDefaults validates pagination parameters and sets defaults
func ValidateAndSetDefaults(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 {
		*pageSize = DefaultPageSize
	}
	if *pageSize > MaxPageSize {
		*pageSize = MaxPageSize
	}
}

// CalculateOffset calculates the SQL offset for pagination
func CalculateOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}
