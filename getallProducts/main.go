package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/appcontext"
	"gitlab.connectwisedev.com/storefront-service/pkg/catalog"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/filter"
	"gitlab.connectwisedev.com/storefront-service/pkg/logger"
)

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

type productsResponse struct {
	Products   []models.Product `json:"products"`
	Count      int              `json:"count"`
	Categories []string         `json:"categories"`
}

var responseHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Cache-Control":                "public, max-age=300, must-revalidate",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET",
	"Access-Control-Allow-Headers": "Content-Type",
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"message": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// newHandler serves the filtered catalog. Query parameters mirror the
// storefront controls: category, minPrice, maxPrice and sort.
func newHandler(loader catalog.Loader, log zerolog.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		log.Info().Str("path", request.Path).Interface("query", request.QueryStringParameters).Msg("received request")

		q := request.QueryStringParameters
		criteria := filter.ParseCriteria(q["category"], q["minPrice"], q["maxPrice"], q["sort"])

		products, err := loader.Load(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to load catalog")
			return errorResponse(http.StatusServiceUnavailable, "Failed to load products"), nil
		}

		shown := filter.Apply(products, criteria)
		responseBody, err := json.Marshal(productsResponse{
			Products:   shown,
			Count:      len(shown),
			Categories: filter.WithAll(filter.Categories(products)),
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal products")
			return errorResponse(http.StatusInternalServerError, "Failed to format response"), nil
		}

		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    responseHeaders,
			Body:       string(responseBody),
		}, nil
	}
}

func main() {
	defer app.Close()
	lambda.Start(newHandler(app.Loader, app.Logger))
}
