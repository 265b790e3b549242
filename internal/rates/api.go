package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned by APIClient when no API key is set.
// The Fallback composite treats it like any other lookup failure.
var ErrNotConfigured = errors.New("exchange rate API key not configured")

// DefaultBaseURL is the production endpoint for exchangerate-api.com.
const DefaultBaseURL = "https://v6.exchangerate-api.com"

// DefaultAPITimeout bounds a single history lookup.
const DefaultAPITimeout = 10 * time.Second

// APIClient fetches historical rates from the exchangerate-api.com v6
// history endpoint: /v6/{key}/history/{base}/{year}/{month}/{day}.
type APIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client. timeout <= 0 selects DefaultAPITimeout.
func NewAPIClient(apiKey string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}
	return &APIClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the endpoint, for tests against httptest servers.
func (c *APIClient) WithBaseURL(u string) *APIClient {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// historyResponse is the subset of the v6 history payload we consume.
type historyResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Rate implements Provider. A date the API covers but a target currency
// it does not list yields found=false; transport and payload problems
// yield an error so the caller can fall back.
func (c *APIClient) Rate(ctx context.Context, isoDate, base, target string) (float64, bool, error) {
	if c.apiKey == "" {
		return 0, false, ErrNotConfigured
	}

	base = strings.ToUpper(base)
	target = strings.ToUpper(target)

	parts := strings.SplitN(isoDate, "-", 3)
	if len(parts) != 3 {
		return 0, false, fmt.Errorf("invalid date %q", isoDate)
	}

	url := fmt.Sprintf("%s/v6/%s/history/%s/%s/%s/%s",
		c.baseURL, c.apiKey, base, parts[0], parts[1], parts[2])

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("rate request failed: status %d", resp.StatusCode)
	}

	var payload historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, false, fmt.Errorf("decode rate response: %w", err)
	}
	if len(payload.ConversionRates) == 0 {
		return 0, false, errors.New("no conversion rates in API response")
	}

	rate, ok := payload.ConversionRates[target]
	return rate, ok, nil
}
