package suggest

import (
	"github.com/rs/zerolog"

	"course-catalog-service/internal/catalog"
	"course-catalog-service/internal/domain"
	"course-catalog-service/internal/metrics"
)

// DefaultLimit is how many suggestions a single request yields.
const DefaultLimit = 12

// Result is a suggestion response: the ranked products plus the profile they
// were derived from, so the caller can explain the recommendation.
type Result struct {
	Products []domain.ScoredProduct    `json:"products"`
	BasedOn  domain.InteractionProfile `json:"basedOn"`
}

// Engine composes the suggestion pipeline over a catalog snapshot.
type Engine struct {
	limit  int
	opts   Options
	logger zerolog.Logger
}

// NewEngine creates an Engine. A non-positive limit falls back to DefaultLimit.
func NewEngine(limit int, opts Options, logger zerolog.Logger) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Engine{
		limit:  limit,
		opts:   opts,
		logger: logger.With().Str("component", "suggest-engine").Logger(),
	}
}

// Suggest runs profile -> score -> rank -> truncate for one user's history.
// Products the user has already seen (viewed or favorited) are never
// suggested. With no history it returns the high-rating cold-start set in
// catalog order, truncated to the limit.
func (e *Engine) Suggest(snap *catalog.Snapshot, viewedIDs, favoriteIDs []string, strategy domain.SortStrategy) Result {
	profile := BuildProfile(snap, viewedIDs, favoriteIDs, e.opts)

	if profile.TotalInteractions == 0 {
		metrics.Suggestions.WithLabelValues(string(strategy), "true").Inc()
		cold := HighRated(snap)
		if len(cold) > e.limit {
			cold = cold[:e.limit]
		}
		products := make([]domain.ScoredProduct, len(cold))
		for i, p := range cold {
			products[i] = domain.ScoredProduct{Product: p}
		}
		e.logger.Debug().Int("candidates", len(products)).Msg("cold-start suggestions")
		return Result{Products: products, BasedOn: profile}
	}

	exclude := make(map[string]struct{}, len(viewedIDs)+len(favoriteIDs))
	for _, id := range viewedIDs {
		exclude[id] = struct{}{}
	}
	for _, id := range favoriteIDs {
		exclude[id] = struct{}{}
	}

	ranked := Rank(Score(snap, profile, exclude), strategy)
	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}

	metrics.Suggestions.WithLabelValues(string(strategy), "false").Inc()
	e.logger.Debug().
		Int("interactions", profile.TotalInteractions).
		Int("candidates", len(ranked)).
		Str("strategy", string(strategy)).
		Msg("suggestions computed")
	return Result{Products: ranked, BasedOn: profile}
}
