package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as JSON numbers, the same shape the
	// upstream feeds use.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog product after normalization.
// ID carries the source prefix ("F-1", "D-15") and is unique across sources.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}
