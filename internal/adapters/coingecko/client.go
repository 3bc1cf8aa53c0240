// Package coingecko wraps the CoinGecko coins/markets endpoint.
package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketbot/internal/domain"

	"resty.dev/v3"
)

type marketCoin struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	httpc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: httpc}
}

// TopCoins returns the top `limit` coins by market cap, priced in USD,
// ordered as the upstream returns them.
func (c *Client) TopCoins(ctx context.Context, limit int) ([]domain.Coin, error) {
	var body []marketCoin
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"order":       "market_cap_desc",
			"per_page":    strconv.Itoa(limit),
			"page":        "1",
			"sparkline":   "false",
		}).
		SetResult(&body).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coin markets: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status code %d from coin markets", resp.StatusCode())
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("coin markets response contained no coins")
	}

	coins := make([]domain.Coin, 0, len(body))
	for _, m := range body {
		coins = append(coins, domain.Coin{
			Symbol:   strings.ToUpper(m.Symbol),
			PriceUSD: m.CurrentPrice,
		})
	}
	return coins, nil
}
