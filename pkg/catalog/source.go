package catalog

import (
	"context"
	"fmt"

	"gitlab.connectwisedev.com/storefront-service/models"
)

// Source is one upstream product feed. Fetch returns products already mapped
// into the canonical shape, ids prefixed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Product, error)
}

// FetchError reports that a source could not be loaded. The whole catalog
// load fails with it; there are never partial results.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch catalog from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
