package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer holds the checkout details kept on a receipt.
// Only the last four characters of the card number are retained.
type Customer struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	CardLast4 string `json:"cardLast4"`
}

// LineItem is one receipt row.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is the immutable receipt produced at checkout.
// OrderID is a display number only and is not guaranteed to be unique.
type Order struct {
	OrderID   int             `json:"orderId"`
	Customer  Customer        `json:"customer"`
	LineItems []LineItem      `json:"lineItems"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placedAt"`
}
