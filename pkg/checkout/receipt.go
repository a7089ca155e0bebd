package checkout

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.connectwisedev.com/storefront-service/models"
)

const (
	minOrderID = 100000
	maxOrderID = 999999
)

// ProductLookup resolves a cart entry to its product.
type ProductLookup interface {
	Lookup(id string) (models.Product, bool)
}

// CustomerForm is the raw checkout form. Card is the full number as typed.
type CustomerForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Card    string `json:"card"`
	Address string `json:"address"`
}

// Builder produces receipts. Order ids are cosmetic: random six digit
// numbers with no uniqueness check.
type Builder struct {
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRand fixes the order id generator, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(b *Builder) { b.rng = r }
}

// WithClock sets the source of PlacedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder returns a Builder with a randomly seeded generator and time.Now.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildReceipt joins entries with catalog into an Order. Totals are copied
// from the cart computation that fed the checkout so the receipt and the cart
// view always agree. Entries without a product are left out.
func (b *Builder) BuildReceipt(entries []models.CartEntry, catalog ProductLookup, form CustomerForm, totals models.Totals) models.Order {
	items := make([]models.LineItem, 0, len(entries))
	for _, e := range entries {
		p, ok := catalog.Lookup(e.ProductID)
		if !ok {
			continue
		}
		items = append(items, models.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  e.Quantity,
			UnitPrice: p.Price,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(e.Quantity))),
		})
	}

	return models.Order{
		OrderID: minOrderID + b.rng.IntN(maxOrderID-minOrderID+1),
		Customer: models.Customer{
			Name:      form.Name,
			Email:     form.Email,
			Address:   form.Address,
			CardLast4: lastFour(form.Card),
		},
		LineItems: items,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Total:     totals.Total,
		PlacedAt:  b.now(),
	}
}

// lastFour keeps the trailing four characters of a card number.
func lastFour(card string) string {
	r := []rune(strings.TrimSpace(card))
	if len(r) <= 4 {
		return string(r)
	}
	return string(r[len(r)-4:])
}
