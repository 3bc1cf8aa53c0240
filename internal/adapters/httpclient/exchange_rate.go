package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"marketbot/internal/domain"
)

type ExchangeRateClient struct {
	http    *http.Client
	baseURL string
}

type apiResponse struct {
	Result          string             `json:"result"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func (c *ExchangeRateClient) GetExchangeRates(ctx context.Context, base string) (map[string]float64, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + base

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for currency %q: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d for currency %q: %s", resp.StatusCode, base, resp.Status)
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response for currency %q: %w", base, err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("api returned non-success result for currency %q: %s", base, body.Result)
	}

	return body.ConversionRates, nil
}

// PairRate returns the live from→to rate: multiply an amount in "from" by the
// returned value to get the amount in "to".
func (c *ExchangeRateClient) PairRate(ctx context.Context, from string, to string) (float64, error) {
	rates, err := c.GetExchangeRates(ctx, from)
	if err != nil {
		return 0, err
	}
	rate, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("rate %s/%s: %w", from, to, domain.ErrQuoteNotFound)
	}
	return rate, nil
}

func NewExchangeRateClient(httpClient *http.Client, baseURL string) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, baseURL: baseURL}
}
