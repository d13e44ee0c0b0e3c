package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"go.uber.org/zap"

	"fxsync/internal/rates"
)

var _ SnapshotSource = (*RetryingSource)(nil)

// RetryingSource wraps a SnapshotSource with bounded exponential backoff.
// Transient failures (timeouts, connection errors, non-2xx statuses) are
// retried; rates.ErrMalformedResponse fails immediately since retrying
// cannot fix a parsing problem.
type RetryingSource struct {
	source SnapshotSource
	retry  *retrier.Retrier
	log    *zap.SugaredLogger
}

// NewRetryingSource creates a RetryingSource. maxRetries bounds the number
// of re-attempts after the first call; the delay before re-attempt n doubles
// from baseDelay up to maxDelay.
func NewRetryingSource(source SnapshotSource, maxRetries int, baseDelay, maxDelay time.Duration, logger *zap.SugaredLogger) *RetryingSource {
	return &RetryingSource{
		source: source,
		retry:  retrier.New(retrier.LimitedExponentialBackoff(maxRetries, baseDelay, maxDelay), transientClassifier{}),
		log:    logger,
	}
}

// FetchLatest runs the wrapped source under the retry policy. After the
// budget is exhausted it returns rates.ErrSourceUnavailable wrapping the
// last underlying error.
func (s *RetryingSource) FetchLatest(ctx context.Context) (*rates.Snapshot, error) {
	var snap *rates.Snapshot

	err := s.retry.RunCtx(ctx, func(ctx context.Context) error {
		var attemptErr error
		snap, attemptErr = s.source.FetchLatest(ctx)
		if attemptErr != nil && !errors.Is(attemptErr, rates.ErrMalformedResponse) {
			s.log.Warnw("Rate fetch attempt failed, will retry", "error", attemptErr)
		}
		return attemptErr
	})
	if err != nil {
		if errors.Is(err, rates.ErrMalformedResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", rates.ErrSourceUnavailable, err)
	}

	return snap, nil
}

// transientClassifier retries everything except malformed payloads.
type transientClassifier struct{}

func (transientClassifier) Classify(err error) retrier.Action {
	switch {
	case err == nil:
		return retrier.Succeed
	case errors.Is(err, rates.ErrMalformedResponse):
		return retrier.Fail
	default:
		return retrier.Retry
	}
}
