package api

import (
	"context"

	"github.com/camayank/transfer-pricing-platform/internal/benchmark"
)

// StaticSource serves a fixed in-memory comparables universe. Used when the
// database is disabled and in handler tests.
type StaticSource []benchmark.ComparableCompany

func (s StaticSource) ListComparables(ctx context.Context) ([]benchmark.ComparableCompany, error) {
	return s, nil
}
