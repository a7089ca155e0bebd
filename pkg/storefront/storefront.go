package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/cart"
	"gitlab.connectwisedev.com/storefront-service/pkg/catalog"
	"gitlab.connectwisedev.com/storefront-service/pkg/checkout"
	"gitlab.connectwisedev.com/storefront-service/pkg/filter"
)

var (
	ErrCatalogUnavailable = errors.New("failed to load catalog")
	ErrUnknownProduct     = errors.New("unknown product")
)

// CartView is the cart panel: joined lines plus totals.
type CartView struct {
	Lines           []models.CartLine `json:"lines"`
	Totals          models.Totals     `json:"totals"`
	DiscountApplied bool              `json:"discountApplied"`
}

// Storefront is one shopper session. It owns the installed catalog and the
// cart; every operation runs to completion under a single lock.
type Storefront struct {
	loader  catalog.Loader
	builder *checkout.Builder
	logger  zerolog.Logger
	loads   singleflight.Group

	mu      sync.Mutex
	catalog *catalog.Catalog
	loadErr error
	ledger  *cart.Ledger
}

// New returns a session with an empty cart and no catalog installed.
func New(loader catalog.Loader, builder *checkout.Builder, logger zerolog.Logger) *Storefront {
	return &Storefront{
		loader:  loader,
		builder: builder,
		logger:  logger.With().Str("component", "storefront").Logger(),
		ledger:  cart.NewLedger(),
	}
}

// Load fetches the catalog and installs it. On failure the previously
// installed catalog, if any, stays in place. Concurrent calls share one fetch,
// which runs to completion even if the caller that started it goes away.
func (s *Storefront) Load(ctx context.Context) error {
	loadCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan("catalog", func() (interface{}, error) {
		products, err := s.loader.Load(loadCtx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.loadErr = err
			return nil, err
		}
		s.catalog = catalog.NewCatalog(products)
		s.loadErr = nil
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			s.logger.Error().Err(res.Err).Bool("shared", res.Shared).Msg("catalog load failed")
			return fmt.Errorf("%w: %w", ErrCatalogUnavailable, res.Err)
		}
		return nil
	}
}

// installed returns the catalog or ErrCatalogUnavailable. Callers hold mu.
func (s *Storefront) installed() (*catalog.Catalog, error) {
	if s.catalog == nil {
		if s.loadErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, s.loadErr)
		}
		return nil, ErrCatalogUnavailable
	}
	return s.catalog, nil
}

// Products returns the installed catalog in load order.
func (s *Storefront) Products() ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.installed()
	if err != nil {
		return nil, err
	}
	return c.Products(), nil
}

// Categories lists the category menu, "All" first.
func (s *Storefront) Categories() ([]string, error) {
	products, err := s.Products()
	if err != nil {
		return nil, err
	}
	return filter.WithAll(filter.Categories(products)), nil
}

// Browse returns the product grid for criteria.
func (s *Storefront) Browse(criteria filter.Criteria) ([]models.Product, error) {
	products, err := s.Products()
	if err != nil {
		return nil, err
	}
	return filter.Apply(products, criteria), nil
}

// AddToCart adds one unit of a listed product.
func (s *Storefront) AddToCart(productID string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.installed()
	if err != nil {
		return CartView{}, err
	}
	if _, ok := c.Lookup(productID); !ok {
		return CartView{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	s.ledger.AddItem(productID)
	s.logger.Debug().Str("product_id", productID).Msg("added to cart")
	return s.view(), nil
}

// UpdateQuantity adjusts a cart line by delta.
func (s *Storefront) UpdateQuantity(productID string, delta int) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ChangeQuantity(productID, delta)
	return s.view()
}

// RemoveFromCart drops a cart line.
func (s *Storefront) RemoveFromCart(productID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.RemoveItem(productID)
	return s.view()
}

// Cart returns the current cart panel.
func (s *Storefront) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// view builds the cart panel. Callers hold mu.
func (s *Storefront) view() CartView {
	totals := s.ledger.ComputeTotals(s.catalog)
	return CartView{
		Lines:           s.ledger.Lines(s.catalog),
		Totals:          totals,
		DiscountApplied: totals.DiscountApplied(),
	}
}

// Checkout prices the cart, builds the receipt from those exact totals and
// then empties the cart.
func (s *Storefront) Checkout(form checkout.CustomerForm) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := s.ledger.ComputeTotals(s.catalog)
	order := s.builder.BuildReceipt(s.ledger.Entries(), s.catalog, form, totals)
	s.ledger.Clear()

	s.logger.Info().
		Int("order_id", order.OrderID).
		Int("line_items", len(order.LineItems)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")
	return order
}
