package services

import (
	"fmt"
	"strings"
)

// TrackingFilter narrows and orders a store List call. Zero values mean
// no status filter and the default order (saved_at, newest first).
type TrackingFilter struct {
	Status    string
	SortBy    string
	SortOrder string
}

// buildTrackingOrder resolves the filter's sort request against the
// store's allowlisted columns. Ties are always broken by application_id
// ascending so pagination and repeated reads stay stable.
func buildTrackingOrder(columns map[string]string, filter TrackingFilter) (string, error) {
	sortBy := strings.ToLower(strings.TrimSpace(filter.SortBy))
	if sortBy == "" {
		sortBy = "saved_at"
	}
	column, ok := columns[sortBy]
	if !ok {
		return "", fmt.Errorf("%w: cannot sort by %q", ErrValidation, filter.SortBy)
	}

	sortOrder := strings.ToLower(strings.TrimSpace(filter.SortOrder))
	if sortOrder == "" {
		sortOrder = "desc"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return "", fmt.Errorf("%w: sort_order must be asc or desc, got %q", ErrValidation, filter.SortOrder)
	}

	return column + " " + strings.ToUpper(sortOrder) + ", application_id ASC", nil
}
