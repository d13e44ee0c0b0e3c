// Package service implements the tiered retrieval and fallback logic for
// daily rate snapshots.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fxsync/internal/provider"
	"fxsync/internal/rates"
)

// Tier is one storage layer consulted before the remote source. Get returns
// (nil, nil) when no entry exists for the day; a non-nil error means the
// tier itself could not be reached. Put fully supersedes any previous entry
// for the day.
type Tier interface {
	Get(ctx context.Context, day rates.Day) (*rates.Snapshot, error)
	Put(ctx context.Context, day rates.Day, snap *rates.Snapshot) error
}

// RateServiceInterface defines the operations available for snapshot retrieval.
type RateServiceInterface interface {
	GetRatesForDay(ctx context.Context, day rates.Day) (*rates.Snapshot, error)
	StoredRates(ctx context.Context, day rates.Day) (*rates.Snapshot, error)
}

// ErrNotFound indicates no stored snapshot exists for the requested day.
var ErrNotFound = errors.New("no snapshot for day")

// RateService produces a day's snapshot from the cheapest sufficient source
// and leaves both storage tiers agreeing afterwards. It holds no state of
// its own across calls; concurrent callers are safe because both tiers
// overwrite idempotently.
type RateService struct {
	cache       Tier
	store       Tier
	source      provider.SnapshotSource
	log         *zap.SugaredLogger
	tierTimeout time.Duration
}

// NewRateService creates a new RateService. tierTimeout bounds each
// individual cache/store call; the remote source carries its own timeouts.
func NewRateService(cache, store Tier, source provider.SnapshotSource, logger *zap.SugaredLogger, tierTimeout time.Duration) *RateService {
	return &RateService{
		cache:       cache,
		store:       store,
		source:      source,
		log:         logger,
		tierTimeout: tierTimeout,
	}
}

// GetRatesForDay returns the snapshot for the caller-supplied day, trying
// the cache, then the durable store, then the remote source. A fresh fetch
// is written through to the store first and then best-effort to the cache.
// Tier unavailability is absorbed by falling through; only a total failure
// of the chain is returned.
func (s *RateService) GetRatesForDay(ctx context.Context, day rates.Day) (*rates.Snapshot, error) {
	cached, err := s.tierGet(ctx, s.cache, day)
	cacheReachable := err == nil
	if err != nil {
		s.log.Warnw("Cache unreachable, falling through", "day", day, "error", err)
	}
	if cached.Valid() {
		s.log.Infow("Cache hit", "day", day, "base", cached.Base)
		return cached, nil
	}

	stored, err := s.tierGet(ctx, s.store, day)
	if err != nil {
		s.log.Warnw("Durable store unreachable, falling through", "day", day, "error", err)
	}
	if stored.Valid() {
		s.log.Infow("Durable store hit", "day", day, "base", stored.Base)
		if cacheReachable {
			if err := s.tierPut(ctx, s.cache, day, stored); err != nil {
				s.log.Warnw("Cache repopulation failed", "day", day, "error", err)
			} else {
				s.log.Infow("Cache repopulated from durable store", "day", day)
			}
		}
		return stored, nil
	}

	snap, err := s.source.FetchLatest(ctx)
	if err != nil {
		if errors.Is(err, rates.ErrMalformedResponse) {
			s.log.Errorw("Remote source returned malformed payload", "day", day, "error", err)
		} else {
			s.log.Errorw("Remote source exhausted retries", "day", day, "error", err)
		}
		return nil, err
	}
	snap.Day = day

	// Durability first, then best-effort cache.
	if err := s.tierPut(ctx, s.store, day, snap); err != nil {
		s.log.Errorw("Durable store write failed", "day", day, "error", err)
	} else {
		s.log.Infow("Snapshot written to durable store", "day", day, "base", snap.Base, "currencies", len(snap.Rates))
	}
	if err := s.tierPut(ctx, s.cache, day, snap); err != nil {
		s.log.Warnw("Cache write failed", "day", day, "error", err)
	} else {
		s.log.Infow("Snapshot written to cache", "day", day)
	}

	return snap, nil
}

// StoredRates returns the durably stored snapshot for the day without
// consulting the cache or the remote source. Missing days yield ErrNotFound.
func (s *RateService) StoredRates(ctx context.Context, day rates.Day) (*rates.Snapshot, error) {
	snap, err := s.tierGet(ctx, s.store, day)
	if err != nil {
		return nil, err
	}
	if !snap.Valid() {
		return nil, ErrNotFound
	}
	return snap, nil
}

func (s *RateService) tierGet(ctx context.Context, tier Tier, day rates.Day) (*rates.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.tierTimeout)
	defer cancel()
	return tier.Get(ctx, day)
}

func (s *RateService) tierPut(ctx context.Context, tier Tier, day rates.Day, snap *rates.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, s.tierTimeout)
	defer cancel()
	return tier.Put(ctx, day, snap)
}
