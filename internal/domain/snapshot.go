package domain

import "time"

// IndexLabel marks the derived S&P 500 index level item within the
// equity-index snapshot; renderers format it differently from plain quotes.
const IndexLabel = "S&P 500 Index"

// Item is a single labeled value within a snapshot. Available is false when
// the upstream could not provide this particular value; the rest of the
// snapshot is still usable.
type Item struct {
	Label     string
	Value     float64
	Available bool
}

// Snapshot is the normalized outcome of fetching one category. It is either
// success-shaped (Items populated, possibly with unavailable entries) or
// failure-shaped (FailureCause set). A snapshot is immutable once produced.
type Snapshot struct {
	Category     Category
	Items        []Item
	FailureCause string
	FetchedAt    time.Time
}

// Failed reports whether the snapshot is failure-shaped.
func (s Snapshot) Failed() bool {
	return s.FailureCause != ""
}

// FailedSnapshot builds a failure-shaped snapshot with a human-readable cause.
func FailedSnapshot(c Category, cause string) Snapshot {
	return Snapshot{Category: c, FailureCause: cause}
}

// Coin is a single market entry returned by the crypto upstream.
type Coin struct {
	Symbol   string
	PriceUSD float64
}
