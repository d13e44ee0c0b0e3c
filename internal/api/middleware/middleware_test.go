package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	t.Run("mints a UUID when the caller sends none", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates/today", nil))

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(requestIDHeader))
	})

	t.Run("propagates the caller's ID", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/rates/today", nil)
		req.Header.Set(requestIDHeader, "client-supplied-id")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "client-supplied-id", seen)
		assert.Equal(t, "client-supplied-id", w.Header().Get(requestIDHeader))
	})
}

func TestRequestIDFromContext_Outside(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/rates/sync", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, `{"ok":true}`, w.Body.String())
}

func TestStatusRecorder(t *testing.T) {
	t.Run("records explicit status and size", func(t *testing.T) {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		rec.WriteHeader(http.StatusNotFound)
		n, err := rec.Write([]byte("missing"))

		require.NoError(t, err)
		assert.Equal(t, 7, n)
		assert.Equal(t, http.StatusNotFound, rec.Status())
		assert.Equal(t, 7, rec.bytes)
	})

	t.Run("defaults to 200 without WriteHeader", func(t *testing.T) {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		_, err := rec.Write([]byte("ok"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Status())
	})
}
