// Package alphavantage wraps the Alpha Vantage TIME_SERIES_DAILY endpoint.
// The free tier allows 5 calls per minute; every request first waits on the
// injected limiter, so callers never exceed the quota regardless of how many
// symbols they ask for.
package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

// FreeTierLimiter returns a token bucket matching the free-tier quota of
// 5 calls per minute (one call every 12 seconds).
func FreeTierLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(1.0/12.0), 1)
}

type dailyResponse struct {
	TimeSeries  map[string]map[string]string `json:"Time Series (Daily)"`
	Note        string                       `json:"Note"`
	Information string                       `json:"Information"`
}

type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

// NewClient builds a client against baseURL. The limiter is mandatory: tests
// pass rate.NewLimiter(rate.Inf, 1) to disable throttling.
func NewClient(baseURL, apiKey string, timeout time.Duration, limiter *rate.Limiter) *Client {
	httpc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpc, apiKey: apiKey, limiter: limiter}
}

// DailyClose returns the closing price of the most recent trading day for
// the given symbol.
func (c *Client) DailyClose(ctx context.Context, symbol string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter wait for %q: %w", symbol, err)
	}

	var body dailyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "TIME_SERIES_DAILY",
			"symbol":   symbol,
			"apikey":   c.apiKey,
		}).
		SetResult(&body).
		Get("")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch daily series for %q: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return 0, fmt.Errorf("unexpected status code %d for symbol %q", resp.StatusCode(), symbol)
	}

	if len(body.TimeSeries) == 0 {
		// Quota exhaustion and bad symbols both come back as 200 with an
		// explanatory Note/Information field instead of a series.
		cause := body.Note
		if cause == "" {
			cause = body.Information
		}
		if cause == "" {
			cause = "no daily series in response"
		}
		return 0, fmt.Errorf("no data for symbol %q: %s", symbol, cause)
	}

	latest := latestDate(body.TimeSeries)
	closeStr, ok := body.TimeSeries[latest]["4. close"]
	if !ok {
		return 0, fmt.Errorf("missing close price for symbol %q on %s", symbol, latest)
	}
	price, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse close price for %q: %w", symbol, err)
	}
	return price, nil
}

// latestDate picks the most recent YYYY-MM-DD key; the format sorts
// lexicographically.
func latestDate(series map[string]map[string]string) string {
	var latest string
	for d := range series {
		if d > latest {
			latest = d
		}
	}
	return latest
}
