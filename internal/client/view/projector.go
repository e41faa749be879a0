// Package view derives the visible page of a collection: a filtered, then
// paginated projection. Both transforms are pure; the visible page is always
// a deterministic function of (list, search text, page).
package view

import (
	"strings"

	"ferreadmin/internal/models"
)

// DefaultPageSize matches the tables of the admin screens.
const DefaultPageSize = 5

// Filter returns the elements of list whose search values contain search as
// a case-insensitive substring. Empty search returns list unchanged. The
// input slice is never mutated.
func Filter[T models.Entity[T]](list []T, search string) []T {
	if search == "" {
		return list
	}
	needle := strings.ToLower(search)

	filtered := make([]T, 0, len(list))
	for _, item := range list {
		for _, v := range item.SearchValues() {
			if strings.Contains(strings.ToLower(v), needle) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

// Paginate returns the slice [(page-1)*pageSize, page*pageSize) of filtered,
// clipped to its bounds. Callers are responsible for keeping page in range;
// out-of-range pages simply come back empty.
func Paginate[T any](filtered []T, pageSize, page int) []T {
	if pageSize <= 0 || page <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageCount returns how many pages of size pageSize the filtered list spans.
// An empty list still has one (empty) page.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
