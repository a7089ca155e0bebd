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

const DummyJSONPrefix = "D-"

// dummyJSONRecord is the product shape served by dummyjson.com.
// The image lives in "thumbnail".
type dummyJSONRecord struct {
	ID          json.Number     `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Thumbnail   string          `json:"thumbnail"`
	Description string          `json:"description"`
}

type dummyJSONPage struct {
	Products []dummyJSONRecord `json:"products"`
}

// DummyJSONSource reads GET {base}/products?limit=N, a wrapped page.
type DummyJSONSource struct {
	baseURL string
	limit   int
	client  *http.Client
}

// NewDummyJSONSource returns a source that requests limit products.
func NewDummyJSONSource(baseURL string, limit int, client *http.Client) *DummyJSONSource {
	return &DummyJSONSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   limit,
		client:  client,
	}
}

func (s *DummyJSONSource) Name() string { return "dummyjson" }

// Fetch returns the normalized DummyJSON products.
func (s *DummyJSONSource) Fetch(ctx context.Context) ([]models.Product, error) {
	var page dummyJSONPage
	url := fmt.Sprintf("%s/products?limit=%d", s.baseURL, s.limit)
	if err := getJSON(ctx, s.client, url, &page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		return nil, fmt.Errorf("malformed response: missing products")
	}

	products := make([]models.Product, 0, len(page.Products))
	for i, r := range page.Products {
		p, err := normalize(DummyJSONPrefix, r.ID, r.Title, r.Price, r.Category, r.Thumbnail, r.Description)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}
