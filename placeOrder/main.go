package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/appcontext"
	"gitlab.connectwisedev.com/storefront-service/pkg/cart"
	"gitlab.connectwisedev.com/storefront-service/pkg/catalog"
	"gitlab.connectwisedev.com/storefront-service/pkg/checkout"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/logger"
)

// maxItemQuantity caps the units of one product in a single order.
const maxItemQuantity = 1000

var app *appcontext.ApplicationContext

func init() {
	config.LoadEnv()

	cf, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	app, err = appcontext.NewApplicationContext(cf, logger.New(cf.LogLevel, cf.AppEnv))
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize application context")
	}
}

// OrderRequest carries a client-held cart and the checkout form.
type OrderRequest struct {
	Items    []models.CartEntry    `json:"items"`
	Customer checkout.CustomerForm `json:"customer"`
}

func jsonResponse(status int, body interface{}) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"message":"Failed to format response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST",
			"Access-Control-Allow-Headers": "Content-Type",
		},
		Body: string(payload),
	}
}

// newHandler prices the submitted cart against the current catalog and
// returns the receipt. Nothing is charged or stored.
func newHandler(loader catalog.Loader, builder *checkout.Builder, log zerolog.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		var req OrderRequest
		if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
			log.Warn().Err(err).Msg("invalid order payload")
			return jsonResponse(http.StatusBadRequest, map[string]string{"message": "Invalid order payload"}), nil
		}

		if err := validateItems(req.Items); err != nil {
			log.Warn().Err(err).Msg("rejected order items")
			return jsonResponse(http.StatusBadRequest, map[string]string{"message": err.Error()}), nil
		}

		products, err := loader.Load(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to load catalog")
			return jsonResponse(http.StatusServiceUnavailable, map[string]string{"message": "Failed to load products"}), nil
		}
		index := catalog.NewCatalog(products)

		// Replaying the items through a ledger merges repeated ids and drops
		// non-positive quantities the same way the interactive cart does.
		ledger := cart.NewLedger()
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				continue
			}
			ledger.AddItem(item.ProductID)
			ledger.ChangeQuantity(item.ProductID, item.Quantity-1)
		}

		totals := ledger.ComputeTotals(index)
		order := builder.BuildReceipt(ledger.Entries(), index, req.Customer, totals)

		log.Info().
			Int("order_id", order.OrderID).
			Int("line_items", len(order.LineItems)).
			Str("total", order.Total.StringFixed(2)).
			Msg("order placed")
		return jsonResponse(http.StatusCreated, order), nil
	}
}

// validateItems rejects any product whose combined quantity exceeds
// maxItemQuantity. Non-positive rows are ignored later and pass here.
func validateItems(items []models.CartEntry) error {
	perProduct := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if item.Quantity > maxItemQuantity-perProduct[item.ProductID] {
			return fmt.Errorf("quantity for %s exceeds %d", item.ProductID, maxItemQuantity)
		}
		perProduct[item.ProductID] += item.Quantity
	}
	return nil
}

func main() {
	defer app.Close()
	lambda.Start(newHandler(app.Loader, app.Builder, app.Logger))
}
