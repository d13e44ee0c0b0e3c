package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fxsync/internal/rates"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) FetchLatest(ctx context.Context) (*rates.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*rates.Snapshot)
	return snap, args.Error(1)
}
