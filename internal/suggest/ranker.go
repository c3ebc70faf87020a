package suggest

import (
	"sort"

	"course-catalog-service/internal/domain"
)

// Relevance blends similarity and rating; constants are the blend weights.
const (
	relevanceScoreWeight  = 0.6
	relevanceRatingWeight = 0.4
)

// Rank orders scored candidates under the given strategy and returns a new
// slice; the input is left untouched. All primary keys sort descending except
// price-low. Ties fall through to the documented secondary key and finally to
// input order (the sort is stable), so results are deterministic.
func Rank(scored []domain.ScoredProduct, strategy domain.SortStrategy) []domain.ScoredProduct {
	out := make([]domain.ScoredProduct, len(scored))
	copy(out, scored)

	var less func(a, b domain.ScoredProduct) bool
	switch strategy {
	case domain.SortSimilarity:
		// similarityScore desc, tie -> rating desc.
		less = func(a, b domain.ScoredProduct) bool {
			if a.SimilarityScore != b.SimilarityScore {
				return a.SimilarityScore > b.SimilarityScore
			}
			return a.Rating > b.Rating
		}
	case domain.SortRating:
		// rating desc, tie -> reviewCount desc.
		less = func(a, b domain.ScoredProduct) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.ReviewCount > b.ReviewCount
		}
	case domain.SortPriceLow:
		// price asc, tie -> similarityScore desc.
		less = func(a, b domain.ScoredProduct) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.SimilarityScore > b.SimilarityScore
		}
	case domain.SortPriceHigh:
		// price desc, tie -> similarityScore desc.
		less = func(a, b domain.ScoredProduct) bool {
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.SimilarityScore > b.SimilarityScore
		}
	default:
		// relevance: 0.6*similarityScore + 0.4*rating desc, tie -> reviewCount desc.
		less = func(a, b domain.ScoredProduct) bool {
			ra := relevance(a)
			rb := relevance(b)
			if ra != rb {
				return ra > rb
			}
			return a.ReviewCount > b.ReviewCount
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func relevance(p domain.ScoredProduct) float64 {
	return relevanceScoreWeight*float64(p.SimilarityScore) + relevanceRatingWeight*p.Rating
}
