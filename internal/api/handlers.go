package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fxsync/internal/rates"
	"fxsync/internal/service"
)

// SnapshotResponse represents a daily rates snapshot.
type SnapshotResponse struct {
	Day       string             `json:"day" example:"2025-12-01"`
	Base      string             `json:"base" example:"USD"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt string             `json:"fetched_at,omitempty" example:"2025-12-01T06:00:00Z"`
}

// SyncResponse represents the response for an async sync request.
type SyncResponse struct {
	TaskID string `json:"task_id" example:"d4735e3a-265e-4f59-b4a5-7f3c1a2b9c0d"`
	Day    string `json:"day" example:"2025-12-01"`
}

// Enqueuer abstracts the task queue used by the sync endpoint.
type Enqueuer interface {
	EnqueueSyncTask(ctx context.Context, day rates.Day) (string, error)
}

func snapshotResponse(snap *rates.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		Day:   snap.Day.String(),
		Base:  snap.Base,
		Rates: snap.Rates,
	}
	if !snap.FetchedAt.IsZero() {
		resp.FetchedAt = snap.FetchedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// HandleGetTodayRates godoc
// @Summary Get today's rate snapshot
// @Description Returns today's snapshot, consulting the cache, then the durable store, then the remote source with write-through.
// @Tags rates
// @Produce json
// @Success 200 {object} SnapshotResponse "Snapshot found or fetched"
// @Failure 502 {object} ErrorResponse "Remote source returned a malformed payload"
// @Failure 503 {object} ErrorResponse "Remote source unavailable after retries"
// @Router /rates/today [get]
func HandleGetTodayRates(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.GetRatesForDay(r.Context(), rates.Today())
		if err != nil {
			writeSnapshotError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snapshotResponse(snap))
	}
}

// HandleGetRatesByDay godoc
// @Summary Get the stored rate snapshot for a day
// @Description Returns the durably stored snapshot for an ISO-8601 day. Does not fetch from the remote source.
// @Tags rates
// @Produce json
// @Param day path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} SnapshotResponse "Snapshot found"
// @Failure 400 {object} ErrorResponse "Invalid day format"
// @Failure 404 {object} ErrorResponse "No snapshot stored for the day"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /rates/{day} [get]
func HandleGetRatesByDay(svc service.RateServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := rates.ParseDay(chi.URLParam(r, "day"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "day must be formatted YYYY-MM-DD"})
			return
		}

		snap, err := svc.StoredRates(r.Context(), day)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No snapshot for " + day.String()})
			default:
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, snapshotResponse(snap))
	}
}

// HandleRequestSync godoc
// @Summary Request an asynchronous sync run for today
// @Description Enqueues a background sync run for today's snapshot. Returns immediately with the queued task ID.
// @Tags rates
// @Produce json
// @Success 202 {object} SyncResponse "Sync run accepted"
// @Failure 500 {object} ErrorResponse "Internal queue error"
// @Router /rates/sync [post]
func HandleRequestSync(enq Enqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := rates.Today()
		taskID, err := enq.EnqueueSyncTask(r.Context(), day)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to enqueue sync run"})
			return
		}

		writeJSON(w, http.StatusAccepted, SyncResponse{TaskID: taskID, Day: day.String()})
	}
}

func writeSnapshotError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rates.ErrMalformedResponse):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Rate source returned a malformed response"})
	case errors.Is(err, rates.ErrSourceUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Rate source unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal error"})
	}
}
