package appcontext

import (
	"net/http"

	"github.com/rs/zerolog"

	"gitlab.connectwisedev.com/storefront-service/pkg/cache"
	"gitlab.connectwisedev.com/storefront-service/pkg/catalog"
	"gitlab.connectwisedev.com/storefront-service/pkg/checkout"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/database"
	"gitlab.connectwisedev.com/storefront-service/pkg/storefront"
)

// ApplicationContext owns every long lived client and service. Each
// entrypoint builds exactly one.
type ApplicationContext struct {
	Cf         *config.Config
	Logger     zerolog.Logger
	HttpClient *http.Client
	Redis      *cache.RedisClient
	DB         *database.DBClient
	Sources    []catalog.Source
	Loader     catalog.Loader
	Builder    *checkout.Builder
	Storefront *storefront.Storefront
}

// NewApplicationContext builds and initializes the application context.
func NewApplicationContext(cf *config.Config, logger zerolog.Logger) (*ApplicationContext, error) {
	app := &ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	if err := app.Init(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Init creates the clients and services in dependency order.
func (app *ApplicationContext) Init() error {
	app.setUpHttpClient()

	if err := app.setUpDB(); err != nil {
		return err
	}
	app.setUpSources()

	if err := app.setUpLoader(); err != nil {
		return err
	}

	app.Builder = checkout.NewBuilder()
	app.Storefront = storefront.New(app.Loader, app.Builder, app.Logger)
	return nil
}

func (app *ApplicationContext) setUpHttpClient() {
	app.HttpClient = catalog.NewHTTPClient(app.Cf.UpstreamTimeout)
	app.Logger.Debug().Dur("timeout", app.Cf.UpstreamTimeout).Msg("upstream HTTP client ready")
}

func (app *ApplicationContext) setUpDB() error {
	if !app.Cf.DatabaseEnabled() {
		return nil
	}
	db, err := database.NewPostgresClient(database.Options{
		Host:     app.Cf.DBHost,
		Port:     app.Cf.DBPort,
		User:     app.Cf.DBUser,
		Password: app.Cf.DBPassword,
		Name:     app.Cf.DBName,
	}, app.Logger)
	if err != nil {
		return err
	}
	app.DB = db
	return nil
}

func (app *ApplicationContext) setUpSources() {
	app.Sources = []catalog.Source{
		catalog.NewFakeStoreSource(app.Cf.FakeStoreBaseURL, app.HttpClient),
		catalog.NewDummyJSONSource(app.Cf.DummyJSONBaseURL, app.Cf.DummyJSONLimit, app.HttpClient),
	}
	if app.DB != nil {
		app.Sources = append(app.Sources, database.NewProductSource(app.DB))
	}
}

// setUpLoader puts the Redis cache in front of the aggregator when configured.
// An unreachable Redis is logged and skipped; the catalog still loads upstream.
func (app *ApplicationContext) setUpLoader() error {
	aggregator := catalog.NewAggregator(app.Logger, app.Sources...)
	app.Loader = aggregator
	if !app.Cf.CacheEnabled() {
		return nil
	}

	redisClient, err := cache.NewRedisClient(app.Cf.RedisAddr, app.Cf.RedisPassword, app.Logger)
	if err != nil {
		app.Logger.Warn().Err(err).Msg("catalog cache disabled")
		return nil
	}
	app.Redis = redisClient
	app.Loader = cache.NewCatalogCache(redisClient.GetClient(), aggregator, app.Cf.CatalogCacheTTL, app.Logger)
	return nil
}

// Close releases the clients. Pending cache writes are flushed first.
func (app *ApplicationContext) Close() {
	if c, ok := app.Loader.(*cache.CatalogCache); ok {
		c.Wait()
	}
	if app.Redis != nil {
		app.Redis.Close()
	}
	if app.DB != nil {
		app.DB.Close()
	}
}
