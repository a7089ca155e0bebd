package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"
)

// Options locates the PostgreSQL instance.
type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (o Options) connString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		o.Host, o.Port, o.User, o.Password, o.Name)
}

// DBClient holds the PostgreSQL database connection
type DBClient struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresClient opens a pool and pings the server.
func NewPostgresClient(opts Options, logger zerolog.Logger) (*DBClient, error) {
	db, err := sql.Open("postgres", opts.connString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("host", opts.Host).Str("db", opts.Name).Msg("connected to PostgreSQL")
	return &DBClient{db: db, logger: logger}, nil
}

// NewDBClient wraps an existing pool.
func NewDBClient(db *sql.DB, logger zerolog.Logger) *DBClient {
	return &DBClient{db: db, logger: logger}
}

// Close closes the database connection
func (c *DBClient) Close() {
	if c.db != nil {
		c.db.Close()
		c.logger.Info().Msg("PostgreSQL connection closed")
	}
}

// GetDB returns the underlying *sql.DB instance
func (c *DBClient) GetDB() *sql.DB {
	return c.db
}
