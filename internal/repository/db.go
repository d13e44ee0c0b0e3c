// Package repository implements the durable Postgres tier for rate snapshots.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fxsync/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver registration
)

const connectProbeTimeout = 5 * time.Second

// NewPostgresDB opens a connection pool from the configured DSN and verifies
// it with a bounded ping.
func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), connectProbeTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return db, nil
}
