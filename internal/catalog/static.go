package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"

	"course-catalog-service/internal/metrics"
)

//go:embed dataset.json
var rawDataset []byte

// StaticSource serves the embedded demo dataset. It is the default backend
// for local development and tests.
type StaticSource struct{}

// NewStaticSource creates a StaticSource.
func NewStaticSource() *StaticSource { return &StaticSource{} }

// Fetch decodes the embedded dataset.
func (s *StaticSource) Fetch(_ context.Context) (*Snapshot, error) {
	var ds dataset
	if err := json.Unmarshal(rawDataset, &ds); err != nil {
		metrics.CatalogFetches.WithLabelValues("static", "error").Inc()
		return nil, fmt.Errorf("%w: decoding embedded dataset: %v", ErrUnavailable, err)
	}
	snap, err := buildSnapshot(ds)
	if err != nil {
		metrics.CatalogFetches.WithLabelValues("static", "error").Inc()
		return nil, err
	}
	metrics.CatalogFetches.WithLabelValues("static", "ok").Inc()
	return snap, nil
}
