package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeDB struct {
	err error
}

func (f fakeDB) PingContext(ctx context.Context) error { return f.err }

func testRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestHandleHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthz().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body OK, got %q", w.Body.String())
	}
}

func TestHandleReadyz(t *testing.T) {
	t.Run("all dependencies up returns ready", func(t *testing.T) {
		cache, _ := testRedisClient(t)
		asynqRDB, _ := testRedisClient(t)

		w := httptest.NewRecorder()
		HandleReadyz(fakeDB{}, cache, asynqRDB).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		var resp ReadyResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Status != "ready" {
			t.Errorf("Expected status ready, got %s", resp.Status)
		}
		if resp.Cache != "" {
			t.Errorf("Expected no cache annotation, got %s", resp.Cache)
		}
	})

	t.Run("dead cache is degraded but still ready", func(t *testing.T) {
		cache, cacheMR := testRedisClient(t)
		asynqRDB, _ := testRedisClient(t)
		cacheMR.Close()

		w := httptest.NewRecorder()
		HandleReadyz(fakeDB{}, cache, asynqRDB).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200 with degraded cache, got %d", w.Code)
		}

		var resp ReadyResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Status != "degraded" {
			t.Errorf("Expected status degraded, got %s", resp.Status)
		}
		if resp.Cache != "unavailable" {
			t.Errorf("Expected cache unavailable, got %q", resp.Cache)
		}
	})

	t.Run("dead database returns 503", func(t *testing.T) {
		cache, _ := testRedisClient(t)
		asynqRDB, _ := testRedisClient(t)

		w := httptest.NewRecorder()
		HandleReadyz(fakeDB{err: errors.New("connection refused")}, cache, asynqRDB).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})

	t.Run("dead asynq redis returns 503", func(t *testing.T) {
		cache, _ := testRedisClient(t)
		asynqRDB, asynqMR := testRedisClient(t)
		asynqMR.Close()

		w := httptest.NewRecorder()
		HandleReadyz(fakeDB{}, cache, asynqRDB).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})
}
