package models

import (
	"github.com/shopspring/decimal"
)

// CartEntry is one row of the shopping cart. Quantity is always positive.
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartLine is a cart entry joined with its product, for display.
type CartLine struct {
	Product   Product         `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	TotalQuantity int             `json:"totalQuantity"`
}

// DiscountApplied reports whether the totals carry a non-zero discount.
func (t Totals) DiscountApplied() bool {
	return t.Discount.IsPositive()
}
