package suggest

import (
	"course-catalog-service/internal/catalog"
	"course-catalog-service/internal/domain"
)

// Scoring weights and thresholds. MinScore is the minimum-relevance cut: a
// candidate must match at least category+something or level+something to
// survive. These are tunable constants, not derived values.
const (
	categoryWeight = 3
	levelWeight    = 2
	priceWeight    = 1
	ratingWeight   = 1

	// MinScore is the relevance threshold applied after scoring.
	MinScore = 2

	// HighRatingFloor gates both the rating signal and the cold-start set.
	HighRatingFloor = 4.6

	// Price band around the profile average that earns the price signal.
	priceBandLow  = 0.7
	priceBandHigh = 1.3
)

// Score computes similarity scores for every product not in excludeIDs and
// keeps the candidates scoring at least MinScore. Output preserves catalog
// order; ordering by relevance is the ranker's job.
func Score(snap *catalog.Snapshot, profile domain.InteractionProfile, excludeIDs map[string]struct{}) []domain.ScoredProduct {
	var out []domain.ScoredProduct
	for _, p := range snap.Products() {
		if _, skip := excludeIDs[p.ID]; skip {
			continue
		}
		score := similarity(p, profile)
		if score < MinScore {
			continue
		}
		out = append(out, domain.ScoredProduct{Product: p, SimilarityScore: score})
	}
	return out
}

// similarity sums the independent weighted signals against the profile.
func similarity(p domain.Product, profile domain.InteractionProfile) int {
	score := 0
	for _, c := range profile.Categories {
		if p.Category == c {
			score += categoryWeight
			break
		}
	}
	for _, l := range profile.Levels {
		if p.Level == l {
			score += levelWeight
			break
		}
	}
	if profile.AveragePrice != nil {
		avg := *profile.AveragePrice
		if p.Price >= priceBandLow*avg && p.Price <= priceBandHigh*avg {
			score += priceWeight
		}
	}
	if p.Rating >= HighRatingFloor {
		score += ratingWeight
	}
	return score
}

// HighRated returns the cold-start candidate set: products rated at or above
// HighRatingFloor, in catalog order. The deterministic order keeps the set
// testable; any shuffling is a presentation-layer concern.
func HighRated(snap *catalog.Snapshot) []domain.Product {
	var out []domain.Product
	for _, p := range snap.Products() {
		if p.Rating >= HighRatingFloor {
			out = append(out, p)
		}
	}
	return out
}
