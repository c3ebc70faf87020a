// Package catalog holds the immutable in-memory catalog snapshot, the sources
// that produce it, the TTL cache in front of them, and the composite filter
// and pagination logic that read from it.
package catalog

import (
	"errors"
	"sort"

	"course-catalog-service/internal/domain"
)

// Predefined errors for catalog operations.
var (
	// ErrUnavailable means the catalog source was unreachable or returned a
	// structurally invalid dataset. It is never silently substituted with
	// partial data.
	ErrUnavailable = errors.New("catalog: data unavailable")

	// ErrProductNotFound is returned for id lookups with no match.
	ErrProductNotFound = errors.New("catalog: product not found")
)

// FilterOptions are the distinct filterable values across the catalog,
// each sorted ascending.
type FilterOptions struct {
	Categories  []string `json:"categories"`
	Instructors []string `json:"instructors"`
	Levels      []string `json:"levels"`
}

// Snapshot is a read-only view of the catalog taken at fetch time. All core
// operations run against a snapshot, so concurrent requests need no locking.
// Callers must not mutate the slices it returns.
type Snapshot struct {
	products []domain.Product
	byID     map[string]int
	user     domain.User
}

// NewSnapshot builds a snapshot from the fetched dataset. Products keep their
// source order, which is the catalog's natural order everywhere downstream.
func NewSnapshot(products []domain.Product, user domain.User) *Snapshot {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &Snapshot{products: products, byID: byID, user: user}
}

// Products returns the full catalog in natural order.
func (s *Snapshot) Products() []domain.Product { return s.products }

// Len returns the number of products in the catalog.
func (s *Snapshot) Len() int { return len(s.products) }

// User returns the account shipped with the dataset.
func (s *Snapshot) User() domain.User { return s.user }

// ByID looks up a single product. Absence is an expected outcome, not an error.
func (s *Snapshot) ByID(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Resolve maps ids to products preserving the order of ids, silently dropping
// unknown ids.
func (s *Snapshot) Resolve(ids []string) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.ByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Matching returns the products whose id is in ids, in catalog order.
func (s *Snapshot) Matching(ids []string) []domain.Product {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]domain.Product, 0, len(want))
	for _, p := range s.products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// FilterOptions collects the distinct categories, instructors and levels
// across the catalog, each sorted ascending.
func (s *Snapshot) FilterOptions() FilterOptions {
	categories := make(map[string]struct{})
	instructors := make(map[string]struct{})
	levels := make(map[string]struct{})
	for _, p := range s.products {
		categories[p.Category] = struct{}{}
		instructors[p.Instructor] = struct{}{}
		levels[string(p.Level)] = struct{}{}
	}
	return FilterOptions{
		Categories:  sortedKeys(categories),
		Instructors: sortedKeys(instructors),
		Levels:      sortedKeys(levels),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
