package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_GetViewedIDs(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	rows := sqlmock.NewRows([]string{"product_id"}).AddRow("3").AddRow("2").AddRow("1")
	mock.ExpectQuery("SELECT product_id\\s+FROM user_views").
		WithArgs("u1", ViewedHistoryLimit).
		WillReturnRows(rows)

	ids, err := s.GetViewedIDs(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetViewedIDs_UnknownUser(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectQuery("SELECT product_id\\s+FROM user_views").
		WithArgs("nobody", ViewedHistoryLimit).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	ids, err := s.GetViewedIDs(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetViewedIDs_QueryError(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectQuery("SELECT product_id\\s+FROM user_views").
		WithArgs("u1", ViewedHistoryLimit).
		WillReturnError(errors.New("connection refused"))

	_, err := s.GetViewedIDs(context.Background(), "u1")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetFavoriteIDs(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	rows := sqlmock.NewRows([]string{"product_id"}).AddRow("2").AddRow("4").AddRow("7")
	mock.ExpectQuery("SELECT product_id\\s+FROM user_favorites").
		WithArgs("u1").
		WillReturnRows(rows)

	ids, err := s.GetFavoriteIDs(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "7"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordView(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectExec("INSERT INTO user_views").
		WithArgs("u1", "5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.RecordView(context.Background(), "u1", "5")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordView_ExecError(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectExec("INSERT INTO user_views").
		WithArgs("u1", "5").
		WillReturnError(errors.New("deadlock"))

	err := s.RecordView(context.Background(), "u1", "5")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ToggleFavorite_AddsWhenAbsent(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "7").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("u1", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	state, err := s.ToggleFavorite(context.Background(), "u1", "7")

	require.NoError(t, err)
	assert.True(t, state)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ToggleFavorite_RemovesWhenPresent(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	state, err := s.ToggleFavorite(context.Background(), "u1", "7")

	require.NoError(t, err)
	assert.False(t, state)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ToggleFavorite_InsertError(t *testing.T) {
	s, mock := newPostgresStoreMock(t)

	mock.ExpectExec("DELETE FROM user_favorites").
		WithArgs("u1", "7").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO user_favorites").
		WithArgs("u1", "7").
		WillReturnError(errors.New("constraint violation"))

	_, err := s.ToggleFavorite(context.Background(), "u1", "7")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
