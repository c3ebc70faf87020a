package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"course-catalog-service/internal/domain"
	"course-catalog-service/internal/metrics"
)

// Source produces a catalog snapshot. Fetch fails with ErrUnavailable when
// the backing data is unreachable or malformed; it never returns partial data.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// dataset is the wire shape of the catalog payload: the product collection
// plus the demo account whose interaction lists seed the memory store.
type dataset struct {
	Products []domain.Product `json:"products"`
	User     domain.User      `json:"user"`
}

// buildSnapshot validates the decoded dataset. A missing or empty product
// collection, a duplicate or empty id, or an out-of-range rating all count as
// a malformed dataset.
func buildSnapshot(ds dataset) (*Snapshot, error) {
	if len(ds.Products) == 0 {
		return nil, fmt.Errorf("%w: dataset has no products", ErrUnavailable)
	}
	seen := make(map[string]struct{}, len(ds.Products))
	for _, p := range ds.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: product with empty id", ErrUnavailable)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrUnavailable, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Rating < 0 || p.Rating > 5 {
			return nil, fmt.Errorf("%w: product %q rating %v out of range", ErrUnavailable, p.ID, p.Rating)
		}
		if p.Price < 0 || p.ReviewCount < 0 {
			return nil, fmt.Errorf("%w: product %q has negative price or review count", ErrUnavailable, p.ID)
		}
	}
	return NewSnapshot(ds.Products, ds.User), nil
}

// HTTPSource fetches the catalog dataset from a remote JSON endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPSource creates an HTTPSource with the given request timeout.
func NewHTTPSource(url string, timeout time.Duration, logger zerolog.Logger) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "catalog-source").Str("source", "http").Logger(),
	}
}

// Fetch downloads and validates the dataset. Network failures, non-200
// responses and undecodable payloads all surface as ErrUnavailable.
func (s *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues("http", "error").Inc()
		s.logger.Warn().Err(err).Msg("catalog fetch failed")
		return nil, err
	}
	metrics.CatalogFetches.WithLabelValues("http", "ok").Inc()
	s.logger.Debug().Int("products", snap.Len()).Msg("catalog fetched")
	return snap, nil
}

func (s *HTTPSource) fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}
	var ds dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("%w: decoding dataset: %v", ErrUnavailable, err)
	}
	return buildSnapshot(ds)
}
