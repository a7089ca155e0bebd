package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/checkout"
	"gitlab.connectwisedev.com/storefront-service/pkg/filter"
)

type fakeLoader struct {
	mu       sync.Mutex
	products []models.Product
	err      error
	calls    atomic.Int32
	block    chan struct{}
}

func (f *fakeLoader) Load(ctx context.Context) ([]models.Product, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.err
}

func (f *fakeLoader) set(products []models.Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products, f.err = products, err
}

var products = []models.Product{
	{ID: "F-1", Name: "Backpack", Price: decimal.RequireFromString("50.00"), Category: "men's clothing"},
	{ID: "F-2", Name: "Ring", Price: decimal.RequireFromString("9.99"), Category: "jewelery"},
	{ID: "D-2", Name: "Mascara", Price: decimal.RequireFromString("200.00"), Category: "beauty"},
}

func newLoaded(t *testing.T) *Storefront {
	t.Helper()
	s := New(&fakeLoader{products: products}, checkout.NewBuilder(), zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStorefront_BeforeLoad(t *testing.T) {
	s := New(&fakeLoader{products: products}, checkout.NewBuilder(), zerolog.Nop())

	_, err := s.Products()
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	_, err = s.AddToCart("F-1")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Empty(t, s.Cart().Lines)
}

func TestStorefront_LoadFailure(t *testing.T) {
	boom := errors.New("dummyjson unreachable")
	loader := &fakeLoader{err: boom}
	s := New(loader, checkout.NewBuilder(), zerolog.Nop())

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = s.Browse(filter.Criteria{})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, boom)

	// a later successful load installs the catalog
	loader.set(products, nil)
	require.NoError(t, s.Load(context.Background()))
	got, err := s.Products()
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// and a failing reload keeps it
	loader.set(nil, boom)
	assert.Error(t, s.Load(context.Background()))
	got, err = s.Products()
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestStorefront_ConcurrentLoadsShareOneFetch(t *testing.T) {
	loader := &fakeLoader{products: products, block: make(chan struct{})}
	s := New(loader, checkout.NewBuilder(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Load(context.Background()))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(loader.block)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
}

type ctxRecordingLoader struct {
	started chan struct{}
	release chan struct{}
	seen    atomic.Value
}

func (l *ctxRecordingLoader) Load(ctx context.Context) ([]models.Product, error) {
	close(l.started)
	<-l.release
	l.seen.Store(fmt.Sprint(ctx.Err()))
	return products, ctx.Err()
}

func TestStorefront_CancelledCallerDoesNotAbortSharedLoad(t *testing.T) {
	loader := &ctxRecordingLoader{started: make(chan struct{}), release: make(chan struct{})}
	s := New(loader, checkout.NewBuilder(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()

	<-loader.started
	cancel()
	err := <-done
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(loader.release)
	require.Eventually(t, func() bool {
		_, err := s.Products()
		return err == nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "<nil>", loader.seen.Load())
}

func TestStorefront_BrowseAndCategories(t *testing.T) {
	s := newLoaded(t)

	cats, err := s.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "beauty", "jewelery", "men's clothing"}, cats)

	got, err := s.Browse(filter.ParseCriteria("All", "", "60", "price-asc"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "F-2", got[0].ID)
	assert.Equal(t, "F-1", got[1].ID)
}

func TestStorefront_CartFlow(t *testing.T) {
	s := newLoaded(t)

	_, err := s.AddToCart("F-1")
	require.NoError(t, err)
	_, err = s.AddToCart("D-2")
	require.NoError(t, err)
	view, err := s.AddToCart("D-2")
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, 2, view.Lines[1].Quantity)
	assert.Equal(t, "450", view.Totals.Subtotal.String())
	assert.Equal(t, "22.5", view.Totals.Discount.String())
	assert.Equal(t, "427.5", view.Totals.Total.String())
	assert.Equal(t, 3, view.Totals.TotalQuantity)
	assert.True(t, view.DiscountApplied)

	_, err = s.AddToCart("D-404")
	assert.ErrorIs(t, err, ErrUnknownProduct)

	view = s.UpdateQuantity("D-2", -1)
	assert.Equal(t, "250", view.Totals.Subtotal.String())

	view = s.RemoveFromCart("D-2")
	assert.Len(t, view.Lines, 1)
	assert.False(t, view.DiscountApplied)

	view = s.UpdateQuantity("F-1", -1)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Totals.TotalQuantity)
}

func TestStorefront_Checkout(t *testing.T) {
	s := newLoaded(t)
	_, err := s.AddToCart("F-1")
	require.NoError(t, err)
	_, err = s.AddToCart("D-2")
	require.NoError(t, err)
	_, err = s.AddToCart("D-2")
	require.NoError(t, err)

	before := s.Cart()
	order := s.Checkout(checkout.CustomerForm{
		Name:    "Grace Hopper",
		Email:   "grace@example.com",
		Card:    "5500000000000004",
		Address: "Arlington, VA",
	})

	assert.Equal(t, "0004", order.Customer.CardLast4)
	assert.True(t, before.Totals.Subtotal.Equal(order.Subtotal))
	assert.True(t, before.Totals.Discount.Equal(order.Discount))
	assert.True(t, before.Totals.Total.Equal(order.Total))
	require.Len(t, order.LineItems, 2)
	for i, line := range before.Lines {
		assert.True(t, line.LineTotal.Equal(order.LineItems[i].LineTotal))
	}

	after := s.Cart()
	assert.Empty(t, after.Lines)
	assert.True(t, after.Totals.Total.IsZero())
}

func TestStorefront_CheckoutEmptyCart(t *testing.T) {
	s := newLoaded(t)
	order := s.Checkout(checkout.CustomerForm{Name: "Nobody"})

	assert.Empty(t, order.LineItems)
	assert.True(t, order.Total.IsZero())
	assert.GreaterOrEqual(t, order.OrderID, 100000)
}
