package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore implements InteractionStorer over PostgreSQL.
//
// Schema:
//
//	user_views(user_id TEXT, product_id TEXT, viewed_at TIMESTAMPTZ,
//	           PRIMARY KEY (user_id, product_id))
//	user_favorites(user_id TEXT, product_id TEXT, created_at TIMESTAMPTZ,
//	               PRIMARY KEY (user_id, product_id))
//
// The viewed-history cap is applied at read time: rows beyond
// ViewedHistoryLimit simply stop being served.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore over an existing connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetViewedIDs returns viewed product ids, most recent first, capped at
// ViewedHistoryLimit. Unknown users yield an empty list.
func (s *PostgresStore) GetViewedIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT product_id
		FROM user_views
		WHERE user_id = $1
		ORDER BY viewed_at DESC
		LIMIT $2;
	`
	return s.queryIDs(ctx, query, "GetViewedIDs", userID, ViewedHistoryLimit)
}

// GetFavoriteIDs returns the user's favorites in the order they were added.
func (s *PostgresStore) GetFavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT product_id
		FROM user_favorites
		WHERE user_id = $1
		ORDER BY created_at ASC;
	`
	return s.queryIDs(ctx, query, "GetFavoriteIDs", userID)
}

func (s *PostgresStore) queryIDs(ctx context.Context, query, op string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s failed to query: %w", op, err)
	}
	defer rows.Close()

	ids := make([]string, 0, ViewedHistoryLimit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: %s failed to scan row: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s iteration error: %w", op, err)
	}
	return ids, nil
}

// RecordView upserts the view, bumping viewed_at so the id moves to the front
// of the served history.
func (s *PostgresStore) RecordView(ctx context.Context, userID, productID string) error {
	query := `
		INSERT INTO user_views (user_id, product_id, viewed_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET viewed_at = CURRENT_TIMESTAMP;
	`
	if _, err := s.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("store: RecordView failed: %w", err)
	}
	return nil
}

// ToggleFavorite removes the favorite if present, otherwise inserts it, and
// reports the resulting state.
func (s *PostgresStore) ToggleFavorite(ctx context.Context, userID, productID string) (bool, error) {
	deleteQuery := `DELETE FROM user_favorites WHERE user_id = $1 AND product_id = $2;`
	result, err := s.db.ExecContext(ctx, deleteQuery, userID, productID)
	if err != nil {
		return false, fmt.Errorf("store: ToggleFavorite delete failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: ToggleFavorite failed to get rows affected: %w", err)
	}
	if affected > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO user_favorites (user_id, product_id, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP);
	`
	if _, err := s.db.ExecContext(ctx, insertQuery, userID, productID); err != nil {
		return false, fmt.Errorf("store: ToggleFavorite insert failed: %w", err)
	}
	return true, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}
