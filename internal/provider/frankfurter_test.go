package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxsync/internal/rates"
)

func TestFrankfurterProvider_FetchLatest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/latest", r.URL.Path)
			assert.Equal(t, "USD", r.URL.Query().Get("base"))
			_, _ = w.Write([]byte(`{"base":"USD","date":"2025-12-01","rates":{"EUR":0.91,"JPY":155.2}}`))
		}))
		defer srv.Close()

		p := NewFrankfurterProvider(srv.URL, "USD", 5)
		snap, err := p.FetchLatest(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "USD", snap.Base)
		assert.InDelta(t, 155.2, snap.Rates["JPY"], 1e-9)
	})

	t.Run("empty rates is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":"USD","date":"2025-12-01","rates":{}}`))
		}))
		defer srv.Close()

		p := NewFrankfurterProvider(srv.URL, "USD", 5)
		_, err := p.FetchLatest(context.Background())
		assert.ErrorIs(t, err, rates.ErrMalformedResponse)
	})
}
