package cart

import (
	"math"

	"github.com/shopspring/decimal"

	"gitlab.connectwisedev.com/storefront-service/models"
)

var (
	// DiscountThreshold is exclusive: a subtotal of exactly 200.00 earns nothing.
	DiscountThreshold = decimal.NewFromInt(200)
	DiscountRate      = decimal.RequireFromString("0.05")
)

// ProductLookup resolves a cart entry to its product.
type ProductLookup interface {
	Lookup(id string) (models.Product, bool)
}

// Ledger is the shopping cart: one entry per product, kept in insertion order,
// every quantity positive. It is not safe for concurrent use.
type Ledger struct {
	entries []models.CartEntry
}

// NewLedger returns an empty cart.
func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) find(productID string) int {
	for i := range l.entries {
		if l.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of productID, merging with an existing entry.
func (l *Ledger) AddItem(productID string) {
	if i := l.find(productID); i >= 0 {
		l.entries[i].Quantity = addQuantity(l.entries[i].Quantity, 1)
		return
	}
	l.entries = append(l.entries, models.CartEntry{ProductID: productID, Quantity: 1})
}

// ChangeQuantity adjusts an existing entry by delta and drops it once the
// quantity reaches zero. Quantities saturate at math.MaxInt. Unknown ids are
// ignored.
func (l *Ledger) ChangeQuantity(productID string, delta int) {
	i := l.find(productID)
	if i < 0 {
		return
	}
	l.entries[i].Quantity = addQuantity(l.entries[i].Quantity, delta)
	if l.entries[i].Quantity <= 0 {
		l.removeAt(i)
	}
}

// RemoveItem drops the entry for productID if present.
func (l *Ledger) RemoveItem(productID string) {
	if i := l.find(productID); i >= 0 {
		l.removeAt(i)
	}
}

// addQuantity adds delta to a positive quantity without wrapping.
func addQuantity(quantity, delta int) int {
	if delta > 0 && quantity > math.MaxInt-delta {
		return math.MaxInt
	}
	return quantity + delta
}

func (l *Ledger) removeAt(i int) {
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

// Clear empties the cart.
func (l *Ledger) Clear() {
	l.entries = nil
}

// Len returns the number of distinct products in the cart.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the cart rows in insertion order.
func (l *Ledger) Entries() []models.CartEntry {
	out := make([]models.CartEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ComputeTotals prices the cart against catalog. Entries whose product is
// missing contribute nothing to the subtotal but still count toward quantity.
func (l *Ledger) ComputeTotals(catalog ProductLookup) models.Totals {
	return ComputeTotals(l.entries, catalog)
}

// ComputeTotals prices entries against catalog.
func ComputeTotals(entries []models.CartEntry, catalog ProductLookup) models.Totals {
	subtotal := decimal.Zero
	quantity := 0
	for _, e := range entries {
		quantity = addQuantity(quantity, e.Quantity)
		if p, ok := catalog.Lookup(e.ProductID); ok {
			subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
	}

	discount := decimal.Zero
	if subtotal.GreaterThan(DiscountThreshold) {
		discount = subtotal.Mul(DiscountRate)
	}

	return models.Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal.Sub(discount),
		TotalQuantity: quantity,
	}
}

// Lines joins the cart with catalog for display, skipping missing products.
func (l *Ledger) Lines(catalog ProductLookup) []models.CartLine {
	lines := make([]models.CartLine, 0, len(l.entries))
	for _, e := range l.entries {
		p, ok := catalog.Lookup(e.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{
			Product:   p,
			Quantity:  e.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(e.Quantity))),
		})
	}
	return lines
}
