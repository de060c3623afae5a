package helper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection settings for PostgreSQL
type DatabaseConfiguration struct {
	Host         string `env:"MEDGRAPH_DB_HOST" envDefault:"localhost"`
	Port         string `env:"MEDGRAPH_DB_PORT" envDefault:"5432"`
	Database     string `env:"MEDGRAPH_DB_DATABASE" envDefault:"database"`
	Username     string `env:"MEDGRAPH_DB_USERNAME"`
	Password     string `env:"MEDGRAPH_DB_PASSWORD"`
	Schema       string `env:"MEDGRAPH_DB_SCHEMA" envDefault:"public"`
	SSLMode      string `env:"MEDGRAPH_DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"MEDGRAPH_DB_MAX_OPEN_CONNS" envDefault:"10"`
}

// NewDatabaseConfiguration reads the database configuration from the environment.
// A .env file in the working directory is loaded first if it exists,
// variables already set in the environment take precedence.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewError("load .env", err)
	}

	config := &DatabaseConfiguration{}
	err = env.Parse(config)
	if err != nil {
		return nil, NewError("parse database configuration", err)
	}
	if config.Username == "" || config.Password == "" {
		return nil, NewError("parse database configuration", fmt.Errorf("MEDGRAPH_DB_USERNAME and MEDGRAPH_DB_PASSWORD must be set"))
	}

	return config, nil
}

// ConnectionString returns the lib/pq connection string
func (c *DatabaseConfiguration) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host,
		c.Port,
		c.Username,
		c.Password,
		c.Database,
		c.SSLMode,
		c.Schema,
	)
}

// Database bundles the connection pool with its logger
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// NewDatabase opens and pings a connection pool for the given configuration
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) (*Database, error) {
	if config == nil {
		return nil, NewError("database configuration validation", fmt.Errorf("database configuration is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	instance, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return nil, NewError("open database", err)
	}
	if config.MaxOpenConns > 0 {
		instance.SetMaxOpenConns(config.MaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = instance.PingContext(ctx)
	if err != nil {
		_ = instance.Close()
		return nil, NewError("ping database", err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host), slog.String("database", config.Database))

	return &Database{
		Name:     name,
		Logger:   logger,
		Instance: instance,
	}, nil
}

// Close closes the connection pool
func (d *Database) Close() error {
	if d == nil || d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}
