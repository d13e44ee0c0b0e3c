package provider

import (
	"context"

	"fxsync/internal/rates"
)

// SnapshotSource defines an interface for fetching a full day's exchange
// rate snapshot from an external source.
type SnapshotSource interface {
	FetchLatest(ctx context.Context) (*rates.Snapshot, error)
}
