package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/checkout"
)

type loaderFunc func(ctx context.Context) ([]models.Product, error)

func (f loaderFunc) Load(ctx context.Context) ([]models.Product, error) { return f(ctx) }

func fixedCatalog(ctx context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: "F-1", Name: "Backpack", Price: decimal.RequireFromString("50.00")},
		{ID: "D-2", Name: "Mascara", Price: decimal.RequireFromString("200.00")},
	}, nil
}

func TestHandler_PlacesOrder(t *testing.T) {
	h := newHandler(loaderFunc(fixedCatalog), checkout.NewBuilder(), zerolog.Nop())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{Body: `{
		"items": [
			{"productId": "F-1", "quantity": 1},
			{"productId": "D-2", "quantity": 1},
			{"productId": "D-2", "quantity": 1},
			{"productId": "D-404", "quantity": 1},
			{"productId": "F-1", "quantity": 0}
		],
		"customer": {"name": "Ada", "email": "ada@example.com", "card": "4000 0566 5566 5556", "address": "London"}
	}`})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, resp.Body, "4000 0566")

	var order models.Order
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &order))
	assert.Equal(t, "5556", order.Customer.CardLast4)
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, "F-1", order.LineItems[0].ProductID)
	assert.Equal(t, 2, order.LineItems[1].Quantity)
	assert.True(t, decimal.RequireFromString("450").Equal(order.Subtotal))
	assert.True(t, decimal.RequireFromString("22.5").Equal(order.Discount))
	assert.True(t, decimal.RequireFromString("427.5").Equal(order.Total))
}

func TestHandler_BadPayload(t *testing.T) {
	h := newHandler(loaderFunc(fixedCatalog), checkout.NewBuilder(), zerolog.Nop())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{Body: `{"items": "nope"}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_RejectsOversizedQuantities(t *testing.T) {
	h := newHandler(loaderFunc(fixedCatalog), checkout.NewBuilder(), zerolog.Nop())

	for name, body := range map[string]string{
		"single row": `{"items": [{"productId": "F-1", "quantity": 9223372036854775807}, {"productId": "F-1", "quantity": 2}]}`,
		"merged rows": `{"items": [{"productId": "F-1", "quantity": 600}, {"productId": "F-1", "quantity": 600}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := h(context.Background(), events.APIGatewayProxyRequest{Body: body})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, resp.Body, "F-1")
		})
	}
}

func TestHandler_AcceptsQuantityAtLimit(t *testing.T) {
	h := newHandler(loaderFunc(fixedCatalog), checkout.NewBuilder(), zerolog.Nop())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		Body: `{"items": [{"productId": "F-1", "quantity": 999}, {"productId": "F-1", "quantity": 1}]}`,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &order))
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, maxItemQuantity, order.LineItems[0].Quantity)
}

func TestHandler_CatalogUnavailable(t *testing.T) {
	h := newHandler(loaderFunc(func(ctx context.Context) ([]models.Product, error) {
		return nil, errors.New("timeout")
	}), checkout.NewBuilder(), zerolog.Nop())

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{Body: `{"items": []}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
