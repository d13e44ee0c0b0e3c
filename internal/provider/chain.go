package provider

import (
	"context"
	"errors"
	"fmt"

	"fxsync/internal/rates"
)

var _ SnapshotSource = (*SourceChain)(nil)

// SourceChain is an abstraction that calls sources sequentially until one
// returns a snapshot.
type SourceChain struct {
	sources []SnapshotSource
}

// NewSourceChain creates a new SourceChain with the given list of sources.
func NewSourceChain(sources ...SnapshotSource) *SourceChain {
	return &SourceChain{
		sources: sources,
	}
}

// FetchLatest calls sources sequentially until one succeeds. The chain's
// failure carries a malformed verdict only when every source produced one;
// a mix of malformed and transient failures stays retryable so a later
// attempt can still reach the healthy source.
func (c *SourceChain) FetchLatest(ctx context.Context) (*rates.Snapshot, error) {
	var errs []error
	malformed := 0
	for _, src := range c.sources {
		snap, err := src.FetchLatest(ctx)
		if err == nil {
			return snap, nil
		}
		if errors.Is(err, rates.ErrMalformedResponse) {
			malformed++
		}
		errs = append(errs, err)
	}

	joined := errors.Join(errs...)
	if malformed == len(c.sources) {
		return nil, fmt.Errorf("all sources failed: %w", joined)
	}
	return nil, fmt.Errorf("all sources failed: %v", joined)
}
