package filter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AllCategories disables category filtering.
const AllCategories = "All"

type SortMode string

const (
	SortDefault   SortMode = "default"
	SortAlphaAsc  SortMode = "alpha-asc"
	SortAlphaDesc SortMode = "alpha-desc"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// ParseSortMode maps a UI token to a SortMode. Unknown tokens keep the load order.
func ParseSortMode(token string) SortMode {
	switch m := SortMode(strings.TrimSpace(token)); m {
	case SortAlphaAsc, SortAlphaDesc, SortPriceAsc, SortPriceDesc:
		return m
	default:
		return SortDefault
	}
}

// Bound is an optional inclusive price limit. The zero value is absent.
type Bound struct {
	value decimal.Decimal
	set   bool
}

// NewBound returns a set bound at v.
func NewBound(v decimal.Decimal) Bound {
	return Bound{value: v, set: true}
}

// ParseBound reads a price field as typed by a shopper. Blank, unparseable
// and negative input yield an absent bound.
func ParseBound(text string) Bound {
	text = strings.TrimSpace(text)
	if text == "" {
		return Bound{}
	}
	v, err := decimal.NewFromString(text)
	if err != nil || v.IsNegative() {
		return Bound{}
	}
	return NewBound(v)
}

// Value returns the bound and whether it is set.
func (b Bound) Value() (decimal.Decimal, bool) {
	return b.value, b.set
}

// IsSet reports whether the bound constrains prices.
func (b Bound) IsSet() bool {
	return b.set
}

func (b Bound) String() string {
	if !b.set {
		return ""
	}
	return b.value.String()
}

// Criteria is the shopper's current browse state.
type Criteria struct {
	Category string
	MinPrice Bound
	MaxPrice Bound
	Sort     SortMode
}

// ParseCriteria builds Criteria from raw UI values.
func ParseCriteria(category, minPrice, maxPrice, sort string) Criteria {
	category = strings.TrimSpace(category)
	if category == "" {
		category = AllCategories
	}
	return Criteria{
		Category: category,
		MinPrice: ParseBound(minPrice),
		MaxPrice: ParseBound(maxPrice),
		Sort:     ParseSortMode(sort),
	}
}
