package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fxsync/internal/rates"
)

// countingSource fails a fixed number of times before succeeding.
type countingSource struct {
	calls    int
	failures int
	err      error
	snap     *rates.Snapshot
}

func (s *countingSource) FetchLatest(ctx context.Context) (*rates.Snapshot, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	return s.snap, nil
}

func newRetrying(src SnapshotSource, maxRetries int) *RetryingSource {
	return NewRetryingSource(src, maxRetries, time.Millisecond, 4*time.Millisecond, zap.NewNop().Sugar())
}

func TestRetryingSource_FetchLatest(t *testing.T) {
	snap := &rates.Snapshot{Base: "USD", Rates: map[string]float64{"EUR": 0.91}}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		src := &countingSource{failures: 2, err: errors.New("connection refused"), snap: snap}

		got, err := newRetrying(src, 3).FetchLatest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, snap, got)
		assert.Equal(t, 3, src.calls)
	})

	t.Run("exhausted retries yield SourceUnavailable with last error", func(t *testing.T) {
		src := &countingSource{failures: 100, err: errors.New("connection refused")}

		_, err := newRetrying(src, 3).FetchLatest(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, rates.ErrSourceUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
		// first attempt plus three retries
		assert.Equal(t, 4, src.calls)
	})

	t.Run("malformed response is not retried", func(t *testing.T) {
		src := &countingSource{failures: 100, err: rates.ErrMalformedResponse}

		_, err := newRetrying(src, 3).FetchLatest(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, rates.ErrMalformedResponse)
		assert.False(t, errors.Is(err, rates.ErrSourceUnavailable))
		assert.Equal(t, 1, src.calls)
	})

	t.Run("fallback behind a malformed primary still gets the retry budget", func(t *testing.T) {
		primary := &countingSource{failures: 100, err: fmt.Errorf("%w: empty rates mapping", rates.ErrMalformedResponse)}
		fallback := &countingSource{failures: 1, err: errors.New("connection refused"), snap: snap}

		got, err := newRetrying(NewSourceChain(primary, fallback), 3).FetchLatest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, snap, got)
		assert.Equal(t, 2, fallback.calls)
		assert.Equal(t, 2, primary.calls)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		src := &countingSource{failures: 100, err: errors.New("connection refused")}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewRetryingSource(src, 5, time.Second, 8*time.Second, zap.NewNop().Sugar()).FetchLatest(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, rates.ErrSourceUnavailable)
	})
}
