package appcontext

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/storefront-service/pkg/cache"
	"gitlab.connectwisedev.com/storefront-service/pkg/catalog"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/filter"
)

func upstreams(t *testing.T) (fake, dummy *httptest.Server) {
	t.Helper()
	fake = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","image":"a.jpg","description":"bag"}]`))
	}))
	dummy = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[{"id":1,"title":"Mascara","price":9.99,"category":"beauty","thumbnail":"b.png","description":"lash"}]}`))
	}))
	t.Cleanup(fake.Close)
	t.Cleanup(dummy.Close)
	return fake, dummy
}

func testConfig(fakeURL, dummyURL string) *config.Config {
	return &config.Config{
		FakeStoreBaseURL: fakeURL,
		DummyJSONBaseURL: dummyURL,
		DummyJSONLimit:   30,
		UpstreamTimeout:  5 * time.Second,
		CatalogCacheTTL:  time.Minute,
	}
}

func TestApplicationContext_WithoutCache(t *testing.T) {
	fake, dummy := upstreams(t)
	app, err := NewApplicationContext(testConfig(fake.URL, dummy.URL), zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Len(t, app.Sources, 2)
	assert.IsType(t, &catalog.Aggregator{}, app.Loader)
	assert.Nil(t, app.Redis)
	assert.Nil(t, app.DB)

	require.NoError(t, app.Storefront.Load(context.Background()))
	products, err := app.Storefront.Browse(filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "F-1", products[0].ID)
	assert.Equal(t, "D-1", products[1].ID)
}

func TestApplicationContext_WithCache(t *testing.T) {
	fake, dummy := upstreams(t)
	mr := miniredis.RunT(t)

	cf := testConfig(fake.URL, dummy.URL)
	cf.RedisAddr = mr.Addr()
	app, err := NewApplicationContext(cf, zerolog.Nop())
	require.NoError(t, err)

	assert.NotNil(t, app.Redis)
	assert.IsType(t, &cache.CatalogCache{}, app.Loader)

	require.NoError(t, app.Storefront.Load(context.Background()))
	app.Close()

	assert.True(t, mr.Exists("storefront:catalog_ids"))
}

func TestApplicationContext_UnreachableRedisFallsBack(t *testing.T) {
	fake, dummy := upstreams(t)
	cf := testConfig(fake.URL, dummy.URL)
	cf.RedisAddr = "127.0.0.1:1"

	app, err := NewApplicationContext(cf, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Redis)
	assert.IsType(t, &catalog.Aggregator{}, app.Loader)
}
