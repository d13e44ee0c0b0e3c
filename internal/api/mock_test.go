package api

import (
	"context"

	"fxsync/internal/rates"
)

// Mock rate service
type mockRateService struct {
	getRatesForDayFunc func(ctx context.Context, day rates.Day) (*rates.Snapshot, error)
	storedRatesFunc    func(ctx context.Context, day rates.Day) (*rates.Snapshot, error)
}

func (m *mockRateService) GetRatesForDay(ctx context.Context, day rates.Day) (*rates.Snapshot, error) {
	return m.getRatesForDayFunc(ctx, day)
}

func (m *mockRateService) StoredRates(ctx context.Context, day rates.Day) (*rates.Snapshot, error) {
	return m.storedRatesFunc(ctx, day)
}

// Mock enqueuer
type mockEnqueuer struct {
	enqueueFunc func(ctx context.Context, day rates.Day) (string, error)
}

func (m *mockEnqueuer) EnqueueSyncTask(ctx context.Context, day rates.Day) (string, error) {
	return m.enqueueFunc(ctx, day)
}
