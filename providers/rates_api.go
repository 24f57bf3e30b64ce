package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
)

// RatesAPIProvider implements RatesProvider against a public exchange-rates
// API (exchangerate.host compatible).
type RatesAPIProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewRatesAPIProvider creates a new RatesAPIProvider.
func NewRatesAPIProvider(baseURL string) *RatesAPIProvider {
	return &RatesAPIProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type ratesAPIResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates requests the latest rate table for the given base currency.
func (p *RatesAPIProvider) FetchRates(ctx context.Context, base string) (*models.RateSnapshot, error) {
	endpoint := fmt.Sprintf("%s/latest?base=%s", p.baseURL, url.QueryEscape(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("rates request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rates API returned %d: %s", resp.StatusCode, string(body))
	}

	var out ratesAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("rates decode: %w", err)
	}
	if len(out.Rates) == 0 {
		return nil, fmt.Errorf("rates API returned empty rate table for %s", base)
	}

	return &models.RateSnapshot{
		Base:      out.Base,
		Rates:     out.Rates,
		FetchedAt: time.Now(),
	}, nil
}
