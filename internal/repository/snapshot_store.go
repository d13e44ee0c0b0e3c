package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fxsync/internal/rates"
)

// SnapshotStore defines durable storage operations for daily rate snapshots.
type SnapshotStore interface {
	Get(ctx context.Context, day rates.Day) (*rates.Snapshot, error)
	Put(ctx context.Context, day rates.Day, snap *rates.Snapshot) error
}

// PostgresSnapshotStore is an implementation of SnapshotStore backed by the
// rate_snapshots table, one row per calendar day.
type PostgresSnapshotStore struct {
	db *sql.DB
}

// NewPostgresSnapshotStore creates a new PostgresSnapshotStore.
func NewPostgresSnapshotStore(db *sql.DB) SnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

// Get retrieves the snapshot for the given day, or (nil, nil) when no row
// exists. Any other failure wraps rates.ErrTierUnavailable.
func (s *PostgresSnapshotStore) Get(ctx context.Context, day rates.Day) (*rates.Snapshot, error) {
	query := `SELECT base, rates, fetched_at
              FROM rate_snapshots
              WHERE day = $1::date`

	var (
		base      string
		rawRates  []byte
		fetchedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, day.String()).Scan(&base, &rawRates, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read snapshot %s: %v", rates.ErrTierUnavailable, day, err)
	}

	var factors map[string]float64
	if err := json.Unmarshal(rawRates, &factors); err != nil {
		return nil, fmt.Errorf("decode stored rates for %s: %w", day, err)
	}

	snap := &rates.Snapshot{
		Day:   day,
		Base:  base,
		Rates: factors,
	}
	if fetchedAt.Valid {
		snap.FetchedAt = fetchedAt.Time.UTC()
	}
	return snap, nil
}

// Put writes the snapshot for the given day. Writing a day that already
// exists fully supersedes the previous row (last-write-wins), which keeps
// same-day re-runs idempotent.
func (s *PostgresSnapshotStore) Put(ctx context.Context, day rates.Day, snap *rates.Snapshot) error {
	rawRates, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("encode rates for %s: %w", day, err)
	}

	query := `INSERT INTO rate_snapshots (day, base, rates, fetched_at, updated_at)
              VALUES ($1::date, $2, $3::jsonb, $4, NOW())
              ON CONFLICT (day)
              DO UPDATE SET base = EXCLUDED.base,
                            rates = EXCLUDED.rates,
                            fetched_at = EXCLUDED.fetched_at,
                            updated_at = NOW()`

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, query, day.String(), snap.Base, rawRates, fetchedAt); err != nil {
		return fmt.Errorf("%w: write snapshot %s: %v", rates.ErrTierUnavailable, day, err)
	}
	return nil
}
