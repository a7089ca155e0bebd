package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"gitlab.connectwisedev.com/storefront-service/models"
)

const FakeStorePrefix = "F-"

// fakeStoreRecord is the product shape served by fakestoreapi.com.
type fakeStoreRecord struct {
	ID          json.Number     `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// FakeStoreSource reads GET {base}/products, a bare JSON array.
type FakeStoreSource struct {
	baseURL string
	client  *http.Client
}

// NewFakeStoreSource returns a source rooted at baseURL.
func NewFakeStoreSource(baseURL string, client *http.Client) *FakeStoreSource {
	return &FakeStoreSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *FakeStoreSource) Name() string { return "fakestore" }

// Fetch returns the normalized FakeStore products.
func (s *FakeStoreSource) Fetch(ctx context.Context) ([]models.Product, error) {
	var records []fakeStoreRecord
	if err := getJSON(ctx, s.client, s.baseURL+"/products", &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, fmt.Errorf("malformed response: expected a product array")
	}

	products := make([]models.Product, 0, len(records))
	for i, r := range records {
		p, err := normalize(FakeStorePrefix, r.ID, r.Title, r.Price, r.Category, r.Image, r.Description)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// normalize maps the fields every source shares into a Product.
func normalize(prefix string, id json.Number, title string, price decimal.Decimal,
	category, image, description string) (models.Product, error) {
	if id.String() == "" {
		return models.Product{}, fmt.Errorf("missing id")
	}
	if price.IsNegative() {
		return models.Product{}, fmt.Errorf("product %s: negative price %s", id, price)
	}
	return models.Product{
		ID:          prefix + id.String(),
		Name:        title,
		Price:       price,
		Category:    category,
		Image:       image,
		Description: description,
	}, nil
}
