package testkit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver registration
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresInstance wraps a Postgres testcontainer and its DSN.
type PostgresInstance struct {
	container testcontainers.Container
	dsn       string
}

// DSN returns the connection string for the Postgres instance.
func (p *PostgresInstance) DSN() string { return p.dsn }

// Terminate stops the Postgres container, if one was started.
func (p *PostgresInstance) Terminate(ctx context.Context) error {
	if p.container == nil {
		return nil
	}
	return p.container.Terminate(ctx)
}

// StartPostgres starts a Postgres container, or uses an external DSN from cfg.
func StartPostgres(ctx context.Context, cfg *Config) (*PostgresInstance, error) {
	if cfg.PGDSN != "" {
		return &PostgresInstance{dsn: cfg.PGDSN}, nil
	}

	ctr, err := postgres.Run(ctx,
		cfg.PGImage,
		postgres.WithDatabase(randomDBName()),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategyAndDeadline(cfg.StartupTimeout,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get postgres connection string: %w", err)
	}

	return &PostgresInstance{
		container: ctr,
		dsn:       connStr,
	}, nil
}

// randomDBName generates a name like "fxsync_test_a1b2c3d4" so parallel
// suites never share a database.
func randomDBName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "fxsync_test_fallback"
	}
	return "fxsync_test_" + hex.EncodeToString(b)
}
