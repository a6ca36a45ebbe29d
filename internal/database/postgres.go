// Package database manages the optional Postgres connection backing the
// run archive. The archive is enabled only when the POSTGRES_* environment
// variables are present; the suite runs fine without it.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Config holds the Postgres connection settings for the run archive.
type Config struct {
	User     string
	Password string
	Database string
	Host     string
}

// Configured reports whether enough environment is present to enable the
// archive at all.
func Configured(getenv func(string) string) bool {
	return getenv("POSTGRES_HOSTNAME") != ""
}

// LoadConfig loads the archive connection settings from environment
// variables. All four values are required once the host is set.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}

	return cfg, nil
}

// ConnectionString returns a lib/pq connection string.
func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Database)
}

// Connect opens and verifies a connection to the archive database.
func Connect(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
