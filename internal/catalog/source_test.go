package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"products": [
				{"id": "1", "title": "Course A", "price": 100, "rating": 4.8, "reviewCount": 10, "category": "Grammar", "instructor": "A", "level": "Beginner", "tags": ["x"]},
				{"id": "2", "title": "Course B", "price": 200, "rating": 4.2, "reviewCount": 20, "category": "Business", "instructor": "B", "level": "Advanced", "tags": ["y"]}
			],
			"user": {"id": "user-1", "favoriteProducts": ["2"], "viewedProducts": ["1"]}
		}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, time.Second, zerolog.Nop())
	snap, err := source.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, "user-1", snap.User().ID)
	p, ok := snap.ByID("2")
	require.True(t, ok)
	assert.Equal(t, "Course B", p.Title)
}

func TestHTTPSource_Fetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "undecodable payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"products": "oops"`))
			},
		},
		{
			name: "missing products",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"user": {"id": "user-1"}}`))
			},
		},
		{
			name: "duplicate ids",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"products": [{"id": "1", "rating": 4}, {"id": "1", "rating": 4}]}`))
			},
		},
		{
			name: "rating out of range",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"products": [{"id": "1", "rating": 7.5}]}`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			source := NewHTTPSource(server.URL, time.Second, zerolog.Nop())
			_, err := source.Fetch(context.Background())

			assert.True(t, errors.Is(err, ErrUnavailable), "expected ErrUnavailable, got %v", err)
		})
	}
}

func TestHTTPSource_Fetch_Unreachable(t *testing.T) {
	source := NewHTTPSource("http://127.0.0.1:1/catalog", 100*time.Millisecond, zerolog.Nop())

	_, err := source.Fetch(context.Background())

	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestStaticSource_Fetch_ParsesEmbeddedDataset(t *testing.T) {
	source := NewStaticSource()

	snap, err := source.Fetch(context.Background())

	require.NoError(t, err)
	assert.Greater(t, snap.Len(), 0)
	assert.Equal(t, "user-1", snap.User().ID)

	// The seeded account's interaction lists reference real products.
	for _, id := range append(snap.User().ViewedProducts, snap.User().FavoriteProducts...) {
		_, ok := snap.ByID(id)
		assert.True(t, ok, "dataset user references unknown product %q", id)
	}
}
