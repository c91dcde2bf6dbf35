package persistence

import (
	"github.com/agoramall/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const maxPageSize = 100

// applySort orders the query by the filter's sort options, falling back to
// created_at DESC when the requested field is not in the whitelist.
func applySort(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// applyPagination applies offset/limit pagination from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
