// Package store persists user interaction history (views and favorites).
// The catalog itself is immutable and lives in internal/catalog; only
// interactions are written at runtime.
package store

import (
	"context"
)

// ViewedHistoryLimit caps how many viewed product ids are kept per user,
// most recent first.
const ViewedHistoryLimit = 10

// InteractionStorer records and reads a user's product interactions.
// Both id getters return an empty list, not an error, for unknown users.
type InteractionStorer interface {
	// GetViewedIDs returns viewed product ids, most recent first, capped at
	// ViewedHistoryLimit.
	GetViewedIDs(ctx context.Context, userID string) ([]string, error)

	// GetFavoriteIDs returns the user's favorited product ids.
	GetFavoriteIDs(ctx context.Context, userID string) ([]string, error)

	// RecordView moves productID to the front of the user's viewed list,
	// truncating it to ViewedHistoryLimit.
	RecordView(ctx context.Context, userID, productID string) error

	// ToggleFavorite flips the favorite state and reports the new state.
	ToggleFavorite(ctx context.Context, userID, productID string) (bool, error)
}
