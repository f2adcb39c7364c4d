package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"cibn-digital-library/internal/config"
)

// retryDelay is the fixed pause between initial connection attempts.
const retryDelay = 5 * time.Second

type DB struct {
	*sql.DB
}

// Connect opens a connection pool to the CIBN membership SQL Server and
// verifies it with a ping.
func Connect(cfg config.CIBNDBConfig) (*DB, error) {
	dsn := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
	}
	query := url.Values{}
	query.Set("database", cfg.Database)
	query.Set("encrypt", "true")
	query.Set("TrustServerCertificate", "true")
	dsn.RawQuery = query.Encode()

	db, err := sql.Open("sqlserver", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// ConnectWithRetry keeps retrying the initial connection on a fixed
// delay until it succeeds or ctx is cancelled. There is no backoff and
// no attempt cap; a single-process server has nothing better to do
// without its membership database.
func ConnectWithRetry(ctx context.Context, cfg config.CIBNDBConfig) (*DB, error) {
	for {
		db, err := Connect(cfg)
		if err == nil {
			return db, nil
		}
		slog.Error("database connection failed, retrying", "server", cfg.Server, "delay", retryDelay, "error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up connecting to database: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}

func (db *DB) Close() error {
	return db.DB.Close()
}
