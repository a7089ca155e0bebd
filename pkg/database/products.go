package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"gitlab.connectwisedev.com/storefront-service/models"
)

const LocalPrefix = "P-"

const listProductsQuery = `SELECT id, name, image, price, category, description FROM products WHERE NOT out_of_stock ORDER BY name ASC`

// ProductSource serves the in-house products table as a catalog source.
type ProductSource struct {
	client *DBClient
}

// NewProductSource returns a source over the products table.
func NewProductSource(client *DBClient) *ProductSource {
	return &ProductSource{client: client}
}

func (s *ProductSource) Name() string { return "postgres" }

// Fetch returns the in-stock products ordered by name.
func (s *ProductSource) Fetch(ctx context.Context) ([]models.Product, error) {
	rows, err := s.client.GetDB().QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query products from DB: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var (
			p           models.Product
			price       string
			image       sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &image, &price, &p.Category, &description); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid price %q: %w", p.ID, price, err)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %s: negative price %s", p.ID, p.Price)
		}
		p.ID = LocalPrefix + p.ID
		p.Image = image.String
		p.Description = description.String
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration from DB: %w", err)
	}

	s.client.logger.Debug().Int("count", len(products)).Msg("products read from PostgreSQL")
	return products, nil
}
