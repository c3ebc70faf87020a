package domain

// ReviewCountRange is a discrete popularity bucket used for filtering.
type ReviewCountRange string

const (
	ReviewCountAll      ReviewCountRange = "all"
	ReviewCount500Plus  ReviewCountRange = "500+"
	ReviewCount100To500 ReviewCountRange = "100-500"
	ReviewCountUnder100 ReviewCountRange = "<100"
)

// PriceRange bounds product prices. A nil Max means no upper bound.
type PriceRange struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// FilterCriteria is a transient composite query against the catalog.
// Empty/zero fields impose no constraint; active criteria combine with AND.
// Constructed fresh per request and never persisted.
type FilterCriteria struct {
	Search           string           `json:"search"`
	Categories       []string         `json:"categories"`
	Levels           []Level          `json:"levels"`
	PriceRange       PriceRange       `json:"priceRange"`
	MinRating        float64          `json:"minRating"`
	ReviewCountRange ReviewCountRange `json:"reviewCountRange"`
	Instructors      []string         `json:"instructors"`
}

// Active reports whether any constraint is set. With no active criteria the
// filter engine returns the full catalog unchanged.
func (c FilterCriteria) Active() bool {
	return c.Search != "" ||
		len(c.Categories) > 0 ||
		len(c.Levels) > 0 ||
		c.PriceRange.Min > 0 ||
		c.PriceRange.Max != nil ||
		c.MinRating > 0 ||
		(c.ReviewCountRange != "" && c.ReviewCountRange != ReviewCountAll) ||
		len(c.Instructors) > 0
}

// SortStrategy selects how suggestion candidates are ordered.
type SortStrategy string

const (
	SortRelevance  SortStrategy = "relevance"
	SortSimilarity SortStrategy = "similarity"
	SortRating     SortStrategy = "rating"
	SortPriceLow   SortStrategy = "price-low"
	SortPriceHigh  SortStrategy = "price-high"
)
