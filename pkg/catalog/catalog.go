package catalog

import (
	"gitlab.connectwisedev.com/storefront-service/models"
)

// Catalog is an immutable, id-indexed product list. A nil *Catalog is empty.
type Catalog struct {
	products []models.Product
	index    map[string]int
}

// NewCatalog indexes products by id.
func NewCatalog(products []models.Product) *Catalog {
	c := &Catalog{
		products: make([]models.Product, len(products)),
		index:    make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		if _, ok := c.index[p.ID]; !ok {
			c.index[p.ID] = i
		}
	}
	return c
}

// Lookup finds a product by its prefixed id.
func (c *Catalog) Lookup(id string) (models.Product, bool) {
	if c == nil {
		return models.Product{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Products returns a copy of the list in load order.
func (c *Catalog) Products() []models.Product {
	if c == nil {
		return nil
	}
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}
