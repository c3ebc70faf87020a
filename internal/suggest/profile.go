// Package suggest implements the personalized suggestion pipeline:
// interaction profile -> weighted scorer -> ranker -> top-N truncation,
// with a high-rating fallback for users without history.
package suggest

import (
	"course-catalog-service/internal/catalog"
	"course-catalog-service/internal/domain"
)

// Options tunes profile building.
type Options struct {
	// DedupeInteractions counts a product present in both the viewed and the
	// favorited list once instead of twice. The default (false) matches the
	// observed product behavior: both lists are concatenated as-is, so such a
	// product contributes twice to averagePrice and totalInteractions.
	DedupeInteractions bool
}

// BuildProfile derives the aggregate preference profile from a user's viewed
// and favorited product ids. Unknown ids are silently dropped. A profile with
// TotalInteractions == 0 signals no history; callers branch on it to serve
// the cold-start fallback.
func BuildProfile(snap *catalog.Snapshot, viewedIDs, favoriteIDs []string, opts Options) domain.InteractionProfile {
	ids := make([]string, 0, len(viewedIDs)+len(favoriteIDs))
	ids = append(ids, viewedIDs...)
	ids = append(ids, favoriteIDs...)
	if opts.DedupeInteractions {
		ids = distinct(ids)
	}

	interacted := snap.Resolve(ids)
	if len(interacted) == 0 {
		return domain.InteractionProfile{
			Categories: []string{},
			Levels:     []domain.Level{},
		}
	}

	var (
		categories []string
		levels     []domain.Level
		seenCat    = make(map[string]struct{})
		seenLvl    = make(map[domain.Level]struct{})
		priceSum   float64
	)
	for _, p := range interacted {
		if _, ok := seenCat[p.Category]; !ok {
			seenCat[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
		if _, ok := seenLvl[p.Level]; !ok {
			seenLvl[p.Level] = struct{}{}
			levels = append(levels, p.Level)
		}
		priceSum += p.Price
	}

	avg := priceSum / float64(len(interacted))
	return domain.InteractionProfile{
		Categories:        categories,
		Levels:            levels,
		AveragePrice:      &avg,
		TotalInteractions: len(interacted),
	}
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
