package search

import (
	"context"

	"github.com/kailas-cloud/sieve/internal/catalog"
)

// CollectionReader resolves collection names to their schemas and engine.
type CollectionReader interface {
	Get(ctx context.Context, name string) (catalog.Collection, error)
}
