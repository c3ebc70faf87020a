package catalog

import (
	"strings"

	"course-catalog-service/internal/domain"
)

// Pagination bounds. Page indices are 1-based; out-of-range values are
// clamped rather than rejected so pagination degrades gracefully.
const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Filter applies the composite criteria to the catalog and returns the
// matching products in catalog order. Filtering is a pure predicate: it never
// reorders, and an empty result is a valid outcome, not an error.
func (s *Snapshot) Filter(c domain.FilterCriteria) []domain.Product {
	if !c.Active() {
		return s.products
	}
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

// matches evaluates every active sub-check; the product is excluded as soon
// as one fails.
func matches(p domain.Product, c domain.FilterCriteria) bool {
	if c.Search != "" && !matchesSearch(p, c.Search) {
		return false
	}
	if len(c.Categories) > 0 && !containsString(c.Categories, p.Category) {
		return false
	}
	if len(c.Levels) > 0 && !containsLevel(c.Levels, p.Level) {
		return false
	}
	if p.Price < c.PriceRange.Min {
		return false
	}
	if c.PriceRange.Max != nil && p.Price > *c.PriceRange.Max {
		return false
	}
	if c.MinRating > 0 && p.Rating < c.MinRating {
		return false
	}
	if !matchesReviewCount(p.ReviewCount, c.ReviewCountRange) {
		return false
	}
	if len(c.Instructors) > 0 && !containsString(c.Instructors, p.Instructor) {
		return false
	}
	return true
}

// matchesSearch does a case-insensitive substring match over title,
// description and tags. This is the canonical search-field set for every
// entry point; fullDescription and category are deliberately not scanned.
func matchesSearch(p domain.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// matchesReviewCount tests the popularity bucket. Bucket bounds are
// inclusive: 100 and 500 both fall inside "100-500".
func matchesReviewCount(count int, bucket domain.ReviewCountRange) bool {
	switch bucket {
	case "", domain.ReviewCountAll:
		return true
	case domain.ReviewCount500Plus:
		return count >= 500
	case domain.ReviewCount100To500:
		return count >= 100 && count <= 500
	case domain.ReviewCountUnder100:
		return count < 100
	default:
		return true
	}
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsLevel(set []domain.Level, v domain.Level) bool {
	for _, l := range set {
		if l == v {
			return true
		}
	}
	return false
}

// Paginate slices an ordered result set into one 1-based page.
// Total is the pre-slice length and TotalPages is at least 1 even for an
// empty input; a page beyond TotalPages yields empty items. page < 1 and
// pageSize <= 0 are clamped to 1 and DefaultPageSize respectively.
func Paginate[T any](items []T, page, pageSize int) domain.PagedResult[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.PagedResult[T]{
		Items:      items[start:end],
		Total:      total,
		TotalPages: totalPages,
	}
}
