package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gitlab.connectwisedev.com/storefront-service/models"
)

// Loader produces the canonical product list.
type Loader interface {
	Load(ctx context.Context) ([]models.Product, error)
}

// Aggregator fetches every source concurrently and concatenates the results
// in source order. Either all sources succeed or the load fails.
type Aggregator struct {
	sources []Source
	logger  zerolog.Logger
}

// NewAggregator returns an Aggregator over sources, in the given order.
func NewAggregator(logger zerolog.Logger, sources ...Source) *Aggregator {
	return &Aggregator{
		sources: sources,
		logger:  logger.With().Str("component", "catalog").Logger(),
	}
}

// Load fetches every source and returns the merged list.
func (a *Aggregator) Load(ctx context.Context) ([]models.Product, error) {
	results := make([][]models.Product, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			products, err := src.Fetch(gctx)
			if err != nil {
				return &FetchError{Source: src.Name(), Err: err}
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.Error().Err(err).Msg("catalog load failed")
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]models.Product, 0, total)
	seen := make(map[string]struct{}, total)
	for i, r := range results {
		for _, p := range r {
			if _, dup := seen[p.ID]; dup {
				err := &FetchError{Source: a.sources[i].Name(), Err: fmt.Errorf("duplicate product id %s", p.ID)}
				a.logger.Error().Err(err).Msg("catalog load failed")
				return nil, err
			}
			seen[p.ID] = struct{}{}
			all = append(all, p)
		}
		a.logger.Debug().Str("source", a.sources[i].Name()).Int("count", len(r)).Msg("source loaded")
	}

	a.logger.Info().Int("sources", len(a.sources)).Int("count", len(all)).Msg("catalog loaded")
	return all, nil
}
