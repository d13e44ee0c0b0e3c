package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fxsync/internal/rates"
)

var _ SnapshotSource = (*FrankfurterProvider)(nil)

// FrankfurterProvider fetches rate snapshots from the Frankfurter API. It
// serves as the secondary source behind a SourceChain.
type FrankfurterProvider struct {
	baseURL string
	base    string
	client  *http.Client
}

// NewFrankfurterProvider creates a new FrankfurterProvider.
func NewFrankfurterProvider(baseURL, baseCurrency string, timeoutSec int) *FrankfurterProvider {
	if baseURL == "" {
		baseURL = "https://api.frankfurter.dev/v1"
	}
	return &FrankfurterProvider{
		baseURL: baseURL,
		base:    baseCurrency,
		client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

type frankfurterResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// FetchLatest retrieves the latest full rates snapshot for the configured
// base currency.
func (p *FrankfurterProvider) FetchLatest(ctx context.Context) (*rates.Snapshot, error) {
	reqURL := fmt.Sprintf("%s/latest?base=%s", p.baseURL, p.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("frankfurter API request creation failed: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("frankfurter API request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("frankfurter API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode frankfurter payload: %v", rates.ErrMalformedResponse, err)
	}

	return snapshotFromPayload(result.Base, result.Rates)
}
