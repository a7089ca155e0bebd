package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"gitlab.connectwisedev.com/storefront-service/models"
	"gitlab.connectwisedev.com/storefront-service/pkg/catalog"
)

const (
	catalogIDsKey    = "storefront:catalog_ids"
	productKeyPrefix = "storefront:product:"
	populateTimeout  = 10 * time.Second
)

// errCacheMiss marks a cache read that must fall back to the upstream load.
var errCacheMiss = errors.New("catalog cache miss")

// CatalogCache serves the canonical product list from Redis and falls back to
// the wrapped loader on a miss. The cached catalog is used only when every
// product listed in the id list is still present.
type CatalogCache struct {
	client *redis.Client
	next   catalog.Loader
	ttl    time.Duration
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewCatalogCache wraps next with a Redis cache whose entries live for ttl.
func NewCatalogCache(client *redis.Client, next catalog.Loader, ttl time.Duration, logger zerolog.Logger) *CatalogCache {
	return &CatalogCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

func productKey(id string) string {
	return productKeyPrefix + id
}

// Load serves the catalog from Redis, or from next on a miss.
func (c *CatalogCache) Load(ctx context.Context) ([]models.Product, error) {
	products, err := c.get(ctx)
	if err == nil {
		c.logger.Debug().Int("count", len(products)).Msg("catalog served from cache")
		return products, nil
	}
	if errors.Is(err, errCacheMiss) {
		c.logger.Debug().Err(err).Msg("loading catalog upstream")
	} else {
		c.logger.Warn().Err(err).Msg("catalog cache unavailable, loading upstream")
	}

	products, err = c.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Repopulate in the background so the caller is not held up by Redis.
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), populateTimeout)
		defer cancel()
		if err := c.populate(pctx, products); err != nil {
			c.logger.Warn().Err(err).Msg("failed to populate catalog cache")
		}
	}()
	return products, nil
}

// Wait blocks until background cache writes have finished.
func (c *CatalogCache) Wait() {
	c.wg.Wait()
}

// Invalidate drops the cached id list, forcing the next Load upstream.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogIDsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func (c *CatalogCache) get(ctx context.Context) ([]models.Product, error) {
	ids, err := c.client.LRange(ctx, catalogIDsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", catalogIDsKey, err)
	}
	// LRANGE on a missing key is an empty list.
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no product ids cached", errCacheMiss)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	results, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to MGET products: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for i, res := range results {
		raw, ok := res.(string)
		if !ok {
			return nil, fmt.Errorf("%w: product %s evicted", errCacheMiss, ids[i])
		}
		var p models.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("%w: product %s unreadable: %v", errCacheMiss, ids[i], err)
		}
		products = append(products, p)
	}
	return products, nil
}

// populate replaces the cached catalog in one MULTI/EXEC so readers never see
// a half-written id list.
func (c *CatalogCache) populate(ctx context.Context, products []models.Product) error {
	ids := make([]interface{}, 0, len(products))
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range products {
			productJSON, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("failed to marshal product %s: %w", p.ID, err)
			}
			pipe.Set(ctx, productKey(p.ID), productJSON, c.ttl)
			ids = append(ids, p.ID)
		}
		pipe.Del(ctx, catalogIDsKey)
		if len(ids) > 0 {
			pipe.RPush(ctx, catalogIDsKey, ids...)
			if c.ttl > 0 {
				pipe.Expire(ctx, catalogIDsKey, c.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for catalog cache: %w", err)
	}
	c.logger.Info().Int("count", len(products)).Dur("ttl", c.ttl).Msg("catalog cache populated")
	return nil
}
