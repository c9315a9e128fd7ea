package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the Postgres connection settings
type DatabaseConfiguration struct {
	Host          string
	Port          string
	Database      string
	Username      string
	Password      string
	Schema        string
	SSLMode       string
	WithTableDrop bool
}

// NewDatabaseConfiguration reads the configuration from METONYM_DB_* environment variables.
// A .env file in the working directory is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("METONYM_DB_HOST"),
		Port:     os.Getenv("METONYM_DB_PORT"),
		Database: os.Getenv("METONYM_DB_DATABASE"),
		Username: os.Getenv("METONYM_DB_USERNAME"),
		Password: os.Getenv("METONYM_DB_PASSWORD"),
		Schema:   getenv("METONYM_DB_SCHEMA", "public"),
		SSLMode:  getenv("METONYM_DB_SSLMODE", "require"),
	}

	if v := os.Getenv("METONYM_DB_WITH_TABLE_DROP"); v != "" {
		drop, err := strconv.ParseBool(v)
		if err != nil {
			return nil, NewError("parse METONYM_DB_WITH_TABLE_DROP", err)
		}
		config.WithTableDrop = drop
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, NewError("database configuration", fmt.Errorf("host, port, database and username must be set"))
	}

	return config, nil
}

// DSN returns the lib/pq connection string
func (c *DatabaseConfiguration) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Schema,
	)
}

// Database bundles a connection pool with its logger
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger

	// WithTableDrop makes handlers drop their table before creating it
	WithTableDrop bool
}

// NewDatabase opens and pings a Postgres connection.
// It panics if the database cannot be reached, like the handlers expect a live connection.
func NewDatabase(name string, dbConfig *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := connect(dbConfig)
	if err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", dbConfig.Host))

	return &Database{
		Name:          name,
		Instance:      db,
		Logger:        logger,
		WithTableDrop: dbConfig.WithTableDrop,
	}
}

// NewTestDatabase opens a connection for tests with a pretty debug logger
func NewTestDatabase(dbConfig *DatabaseConfiguration) *Database {
	return NewDatabase("test", dbConfig, NewLogger(os.Stdout, slog.LevelDebug))
}

// Close closes the underlying connection pool
func (d *Database) Close() error {
	if d == nil || d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}

func connect(dbConfig *DatabaseConfiguration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		return nil, NewError("open", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewError("ping", err)
	}

	return db, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
