package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresSourceMock(t *testing.T) (*PostgresSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSource(db, zerolog.Nop()), mock
}

func courseColumns() []string {
	return []string{
		"id", "title", "description", "full_description", "price", "thumbnail",
		"category", "instructor", "rating", "review_count", "duration", "level", "tags",
	}
}

func TestPostgresSource_Fetch_Success(t *testing.T) {
	source, mock := newPostgresSourceMock(t)

	courseRows := sqlmock.NewRows(courseColumns()).
		AddRow("1", "Grammar Basics", "desc", "full desc", 450.0, "thumb.png",
			"Grammar", "Emma Wilson", 4.8, 120, "10 hours", "Beginner", []byte(`{grammar,basics}`)).
		AddRow("2", "Business Talk", "desc", "full desc", 900.0, "thumb.png",
			"Business", "James Miller", 4.5, 840, "16 hours", "Advanced", []byte(`{business}`))
	mock.ExpectQuery("SELECT id, title, description, full_description").WillReturnRows(courseRows)

	userRows := sqlmock.NewRows([]string{"id", "name", "email", "favorite_products", "viewed_products"}).
		AddRow("user-1", "Alex", "alex@example.com", []byte(`{2}`), []byte(`{1,2}`))
	mock.ExpectQuery("SELECT id, name, email, favorite_products, viewed_products").WillReturnRows(userRows)

	snap, err := source.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	p, ok := snap.ByID("1")
	require.True(t, ok)
	assert.Equal(t, []string{"grammar", "basics"}, p.Tags)
	assert.Equal(t, "user-1", snap.User().ID)
	assert.Equal(t, []string{"1", "2"}, snap.User().ViewedProducts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Fetch_NoSeededUser(t *testing.T) {
	source, mock := newPostgresSourceMock(t)

	courseRows := sqlmock.NewRows(courseColumns()).
		AddRow("1", "Grammar Basics", "desc", "full desc", 450.0, "thumb.png",
			"Grammar", "Emma Wilson", 4.8, 120, "10 hours", "Beginner", []byte(`{grammar}`))
	mock.ExpectQuery("SELECT id, title, description, full_description").WillReturnRows(courseRows)
	mock.ExpectQuery("SELECT id, name, email, favorite_products, viewed_products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "favorite_products", "viewed_products"}))

	snap, err := source.Fetch(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snap.User().ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Fetch_QueryError(t *testing.T) {
	source, mock := newPostgresSourceMock(t)

	mock.ExpectQuery("SELECT id, title, description, full_description").
		WillReturnError(errors.New("connection refused"))

	_, err := source.Fetch(context.Background())

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Fetch_EmptyTable(t *testing.T) {
	source, mock := newPostgresSourceMock(t)

	mock.ExpectQuery("SELECT id, title, description, full_description").
		WillReturnRows(sqlmock.NewRows(courseColumns()))
	mock.ExpectQuery("SELECT id, name, email, favorite_products, viewed_products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "favorite_products", "viewed_products"}))

	_, err := source.Fetch(context.Background())

	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}
