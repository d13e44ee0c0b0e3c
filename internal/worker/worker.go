// Package worker implements background task handling for snapshot sync runs.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"fxsync/internal/rates"
	"fxsync/internal/service"
)

// TaskTypeSyncRates is the Asynq task type for snapshot sync jobs.
const TaskTypeSyncRates = "rates:sync"

// SyncRatesPayload is the payload structure for snapshot sync Asynq tasks.
type SyncRatesPayload struct {
	Day string `json:"day"`
}

// NewSyncRatesHandler returns a function to handle snapshot sync tasks. A
// failed run is returned to Asynq for retry under the worker's own policy;
// the remote source's inner retry budget has already been spent by then.
func NewSyncRatesHandler(svc service.RateServiceInterface, logger *zap.SugaredLogger) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SyncRatesPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Errorw("Invalid task payload", "type", t.Type(), "error", err)
			return nil
		}

		day, err := rates.ParseDay(payload.Day)
		if err != nil {
			logger.Errorw("Invalid day in task payload", "day", payload.Day, "error", err)
			return nil
		}

		snap, err := svc.GetRatesForDay(ctx, day)
		if err != nil {
			logger.Errorw("Sync run failed", "day", day, "error", err)
			return err
		}

		logger.Infow("Sync run completed", "day", day, "base", snap.Base, "currencies", len(snap.Rates))
		return nil
	}
}

// SyncEnqueuer enqueues sync tasks to an Asynq queue with the configured
// retry limit and timeout.
type SyncEnqueuer struct {
	client   *asynq.Client
	maxRetry int
	timeout  time.Duration
}

// NewSyncEnqueuer creates a new SyncEnqueuer.
func NewSyncEnqueuer(client *asynq.Client, maxRetry int, timeout time.Duration) *SyncEnqueuer {
	return &SyncEnqueuer{
		client:   client,
		maxRetry: maxRetry,
		timeout:  timeout,
	}
}

// EnqueueSyncTask enqueues a sync run for the given day and returns the
// queued task's ID.
func (e *SyncEnqueuer) EnqueueSyncTask(ctx context.Context, day rates.Day) (string, error) {
	data, err := json.Marshal(SyncRatesPayload{Day: day.String()})
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(TaskTypeSyncRates, data,
		asynq.MaxRetry(e.maxRetry),
		asynq.Timeout(e.timeout),
	)

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}
