package filter

import (
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gitlab.connectwisedev.com/storefront-service/models"
)

// Apply returns the products matching criteria, ordered by its sort mode.
// The input slice is never modified.
func Apply(products []models.Product, criteria Criteria) []models.Product {
	lo, hasMin := criteria.MinPrice.Value()
	hi, hasMax := criteria.MaxPrice.Value()
	allCategories := criteria.Category == "" || criteria.Category == AllCategories

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !allCategories && p.Category != criteria.Category {
			continue
		}
		if hasMin && p.Price.LessThan(lo) {
			continue
		}
		if hasMax && p.Price.GreaterThan(hi) {
			continue
		}
		out = append(out, p)
	}

	switch criteria.Sort {
	case SortAlphaAsc, SortAlphaDesc:
		// Collators keep internal buffers and are not safe for concurrent use.
		col := collate.New(language.English)
		sign := 1
		if criteria.Sort == SortAlphaDesc {
			sign = -1
		}
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return sign * col.CompareString(a.Name, b.Name)
		})
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}
	return out
}

// Categories lists the distinct product categories in sorted order.
func Categories(products []models.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// WithAll prepends the "All" entry used by the category menu.
func WithAll(categories []string) []string {
	return append([]string{AllCategories}, categories...)
}
