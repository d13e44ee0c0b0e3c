package api

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// DBPinger is the subset of *sql.DB the readiness check needs.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// ReadyResponse reports readiness, with per-tier detail for the cache since
// the service stays serviceable without it.
type ReadyResponse struct {
	Status string `json:"status" example:"ready"`
	Cache  string `json:"cache,omitempty" example:"unavailable"`
}

// HandleHealthz godoc
// @Summary Health check (liveness)
// @Description Always returns 200 OK if the service is running. Used for liveness probes.
// @Tags health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}
}

// HandleReadyz godoc
// @Summary Readiness check
// @Description Checks connectivity to the hard dependencies (Postgres and the asynq Redis). The cache Redis is optional: the fallback chain serves from the store and the remote source without it, so a failed cache ping reports status "degraded" with 200 rather than taking the instance out of rotation.
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse "Ready, possibly with a degraded cache"
// @Failure 503 {object} ErrorResponse "A hard dependency is unavailable"
// @Router /readyz [get]
func HandleReadyz(db DBPinger, cache, asynqRedis *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "DB not ready"})
			return
		}

		if asynqRedis != nil {
			if err := asynqRedis.Ping(r.Context()).Err(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Asynq Redis not ready"})
				return
			}
		}

		resp := ReadyResponse{Status: "ready"}
		if cache != nil {
			if err := cache.Ping(r.Context()).Err(); err != nil {
				resp.Status = "degraded"
				resp.Cache = "unavailable"
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
