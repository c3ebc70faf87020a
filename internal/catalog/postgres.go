package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"course-catalog-service/internal/domain"
	"course-catalog-service/internal/metrics"
)

// PostgresSource loads the catalog dataset from PostgreSQL. The whole course
// table is read into a snapshot in one pass; the snapshot, not the database,
// serves every read afterwards.
type PostgresSource struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresSource creates a PostgresSource over an existing connection pool.
func NewPostgresSource(db *sql.DB, logger zerolog.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: logger.With().Str("component", "catalog-source").Str("source", "postgres").Logger(),
	}
}

// Fetch reads all courses plus the demo account. Query failures surface as
// ErrUnavailable so callers treat an unreachable database the same as an
// unreachable remote dataset.
func (s *PostgresSource) Fetch(ctx context.Context) (*Snapshot, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues("postgres", "error").Inc()
		s.logger.Warn().Err(err).Msg("catalog fetch failed")
		return nil, err
	}
	metrics.CatalogFetches.WithLabelValues("postgres", "ok").Inc()
	return snap, nil
}

func (s *PostgresSource) fetch(ctx context.Context) (*Snapshot, error) {
	query := `
		SELECT id, title, description, full_description, price, thumbnail,
		       category, instructor, rating, review_count, duration, level, tags
		FROM courses
		ORDER BY position ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying courses: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var level string
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.FullDescription, &p.Price,
			&p.Thumbnail, &p.Category, &p.Instructor, &p.Rating, &p.ReviewCount,
			&p.Duration, &level, pq.Array(&p.Tags),
		); err != nil {
			return nil, fmt.Errorf("%w: scanning course row: %v", ErrUnavailable, err)
		}
		p.Level = domain.Level(level)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating course rows: %v", ErrUnavailable, err)
	}

	user, err := s.fetchUser(ctx)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(dataset{Products: products, User: user})
}

func (s *PostgresSource) fetchUser(ctx context.Context) (domain.User, error) {
	query := `
		SELECT id, name, email, favorite_products, viewed_products
		FROM catalog_users
		ORDER BY id ASC
		LIMIT 1;
	`
	var u domain.User
	err := s.db.QueryRowContext(ctx, query).Scan(
		&u.ID, &u.Name, &u.Email, pq.Array(&u.FavoriteProducts), pq.Array(&u.ViewedProducts),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A dataset without a seeded account is still a valid catalog.
			return domain.User{}, nil
		}
		return domain.User{}, fmt.Errorf("%w: querying catalog user: %v", ErrUnavailable, err)
	}
	return u, nil
}
