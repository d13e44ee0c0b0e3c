//go:build integration

package integration

import (
	"testing"
	"time"

	"fxsync/internal/rates"
	"fxsync/internal/repository"
)

func newStore() repository.SnapshotStore {
	return repository.NewPostgresSnapshotStore(testDB)
}

func TestStorePutGet(t *testing.T) {
	resetTestData(t)
	ctx := testContext(t)
	store := newStore()

	day := rates.Day("2026-03-01")
	fetched := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	snap := &rates.Snapshot{
		Day:       day,
		Base:      "USD",
		Rates:     map[string]float64{"EUR": 0.92, "GBP": 0.79, "JPY": 149.5},
		FetchedAt: fetched,
	}

	if err := store.Put(ctx, day, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, day)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if got.Day != day || got.Base != "USD" {
		t.Fatalf("expected %s/USD, got %s/%s", day, got.Day, got.Base)
	}
	if len(got.Rates) != 3 || got.Rates["EUR"] != 0.92 {
		t.Fatalf("unexpected rates: %v", got.Rates)
	}
	if !got.FetchedAt.Equal(fetched) {
		t.Fatalf("expected fetched_at %v, got %v", fetched, got.FetchedAt)
	}
}

func TestStoreGet_Absent(t *testing.T) {
	resetTestData(t)
	ctx := testContext(t)
	store := newStore()

	got, err := store.Get(ctx, rates.Day("2026-03-02"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent day, got %+v", got)
	}
}

func TestStorePut_Overwrite(t *testing.T) {
	resetTestData(t)
	ctx := testContext(t)
	store := newStore()

	day := rates.Day("2026-03-03")
	first := &rates.Snapshot{
		Day:       day,
		Base:      "USD",
		Rates:     map[string]float64{"EUR": 0.92},
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, day, first); err != nil {
		t.Fatalf("first Put: %v", err)
	}

	second := &rates.Snapshot{
		Day:       day,
		Base:      "EUR",
		Rates:     map[string]float64{"USD": 1.09, "GBP": 0.86},
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, day, second); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := store.Get(ctx, day)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if got.Base != "EUR" || len(got.Rates) != 2 {
		t.Fatalf("expected overwritten snapshot, got base=%s rates=%v", got.Base, got.Rates)
	}
}
