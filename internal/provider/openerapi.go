// Package provider implements external rate sources for fetching daily
// currency exchange rate snapshots.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"fxsync/internal/rates"
)

var _ SnapshotSource = (*OpenERAPIProvider)(nil)

// OpenERAPIProvider fetches rate snapshots from the open.er-api.com API.
type OpenERAPIProvider struct {
	baseURL string
	base    string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenERAPIProvider creates a new OpenERAPIProvider for the given base
// currency. The limiter keeps the client inside the free-tier quota even
// when several sync runs land at once.
func NewOpenERAPIProvider(baseURL, baseCurrency string, timeoutSec, requestsPerSec int) *OpenERAPIProvider {
	if baseURL == "" {
		baseURL = "https://open.er-api.com"
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	return &OpenERAPIProvider{
		baseURL: baseURL,
		base:    baseCurrency,
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), requestsPerSec),
	}
}

// open.er-api.com latest API response structure
type erAPIResponse struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// FetchLatest retrieves the latest full rates snapshot for the configured
// base currency. Transport failures and non-2xx statuses are returned as
// plain (retryable) errors; a payload without a base currency or with an
// empty rates map is rates.ErrMalformedResponse.
func (p *OpenERAPIProvider) FetchLatest(ctx context.Context) (*rates.Snapshot, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("open.er-api rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v6/latest/%s", p.baseURL, p.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("open.er-api request creation failed: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open.er-api request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open.er-api returned status %d: %s", resp.StatusCode, string(body))
	}

	var result erAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode open.er-api payload: %v", rates.ErrMalformedResponse, err)
	}

	return snapshotFromPayload(result.BaseCode, result.Rates)
}

// snapshotFromPayload validates a decoded provider payload and converts it
// into a Snapshot. The base currency's self-rate is dropped from the map.
func snapshotFromPayload(base string, factors map[string]float64) (*rates.Snapshot, error) {
	if base == "" {
		return nil, fmt.Errorf("%w: missing base currency", rates.ErrMalformedResponse)
	}
	delete(factors, base)
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: empty rates mapping for base %s", rates.ErrMalformedResponse, base)
	}

	return &rates.Snapshot{
		Base:      base,
		Rates:     factors,
		FetchedAt: time.Now().UTC(),
	}, nil
}
