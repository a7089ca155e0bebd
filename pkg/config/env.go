package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultFakeStoreBaseURL = "https://fakestoreapi.com"
	DefaultDummyJSONBaseURL = "https://dummyjson.com"
	DefaultDummyJSONLimit   = 30
	DefaultUpstreamTimeout  = 30 * time.Second
	DefaultCatalogCacheTTL  = 5 * time.Minute
	DefaultServerPort       = "8080"
)

// Config holds every setting read from the environment.
type Config struct {
	AppEnv   string
	LogLevel string

	FakeStoreBaseURL string
	DummyJSONBaseURL string
	DummyJSONLimit   int
	// UpstreamTimeout bounds each catalog fetch. Zero disables the timeout.
	UpstreamTimeout time.Duration

	// RedisAddr enables the catalog cache when set.
	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	// DBHost enables the PostgreSQL catalog source when set.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string
}

// LoadEnv loads environment variables from .env.local if APP_ENV is "local"
func LoadEnv() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
		os.Setenv("APP_ENV", appEnv)
	}

	if appEnv == "local" {
		err := godotenv.Load(".env.local")
		if err != nil {
			log.Warn().Err(err).Msg(".env.local not loaded, relying on system environment variables")
		} else {
			log.Info().Msg("loaded .env.local for local development")
		}
	} else {
		log.Debug().Str("app_env", appEnv).Msg("not loading .env.local")
	}
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cf := &Config{
		AppEnv:           getString("APP_ENV", "development"),
		LogLevel:         getString("LOG_LEVEL", "info"),
		FakeStoreBaseURL: getString("FAKESTORE_BASE_URL", DefaultFakeStoreBaseURL),
		DummyJSONBaseURL: getString("DUMMYJSON_BASE_URL", DefaultDummyJSONBaseURL),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           getString("DB_PORT", "5432"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		ServerPort:       getString("SERVER_PORT", DefaultServerPort),
	}

	var err error
	if cf.DummyJSONLimit, err = getInt("DUMMYJSON_LIMIT", DefaultDummyJSONLimit); err != nil {
		return nil, err
	}
	if cf.DummyJSONLimit <= 0 {
		return nil, fmt.Errorf("DUMMYJSON_LIMIT must be positive, got %d", cf.DummyJSONLimit)
	}
	if cf.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout); err != nil {
		return nil, err
	}
	if cf.CatalogCacheTTL, err = getDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL); err != nil {
		return nil, err
	}
	return cf, nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// DatabaseEnabled reports whether a PostgreSQL host was configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}
