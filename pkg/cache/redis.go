package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// RedisClient holds the Redis client connection
type RedisClient struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisClient connects to addr and verifies the connection with a PING.
func NewRedisClient(addr, password string, logger zerolog.Logger) (*RedisClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info().Str("addr", addr).Str("ping", pong).Msg("connected to Redis")

	return &RedisClient{client: client, logger: logger}, nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() {
	if c.client != nil {
		c.client.Close()
		c.logger.Info().Msg("Redis connection closed")
	}
}

// GetClient returns the underlying *redis.Client instance
func (c *RedisClient) GetClient() *redis.Client {
	return c.client
}
