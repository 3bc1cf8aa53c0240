package adapters

import (
	"context"
	"marketbot/internal/domain"
)

// RateClient talks to the exchange-rate upstream. PairRate is always a live
// call; conversion results must never be served from the snapshot cache.
type RateClient interface {
	GetExchangeRates(ctx context.Context, base string) (map[string]float64, error)
	PairRate(ctx context.Context, from string, to string) (float64, error)
}

// QuoteClient returns the most recent daily closing price for a symbol.
type QuoteClient interface {
	DailyClose(ctx context.Context, symbol string) (float64, error)
}

// CoinClient lists the top coins by market cap with USD prices.
type CoinClient interface {
	TopCoins(ctx context.Context, limit int) ([]domain.Coin, error)
}

// SnapshotFetcher produces a normalized snapshot for exactly one category.
// Fetchers never return an error: upstream failures are folded into a
// failure-shaped snapshot, partial failures into unavailable items.
type SnapshotFetcher interface {
	Category() domain.Category
	Fetch(ctx context.Context) domain.Snapshot
}

// SnapshotCache serves snapshots within a freshness window and refreshes
// expired slots on demand, at most one refresh in flight per category.
type SnapshotCache interface {
	GetOrRefresh(ctx context.Context, c domain.Category) domain.Snapshot
	Invalidate(c domain.Category)
}

// SessionStore keeps conversion dialogue state keyed by chat ID.
type SessionStore interface {
	Get(chatID int64) (domain.Session, bool)
	Put(chatID int64, s domain.Session)
	Delete(chatID int64)
}

// ContentRepository provides the durable informational texts and the
// supported currency basket.
type ContentRepository interface {
	SupportedCodes(ctx context.Context) (map[string]struct{}, error)
	Content(ctx context.Context, key string) (string, error)
}
