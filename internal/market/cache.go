package market

import (
	"context"
	"sync"
	"time"

	"marketbot/internal/adapters"
	"marketbot/internal/domain"

	"github.com/sirupsen/logrus"
)

// DefaultFreshWindow is how long a stored snapshot, successful or failed, is
// served without re-fetching. Caching failures too keeps the bot from
// hammering an upstream that is already down.
const DefaultFreshWindow = 5 * time.Minute

type slot struct {
	mu        sync.Mutex
	fetcher   adapters.SnapshotFetcher
	snap      domain.Snapshot
	fetchedAt time.Time
	populated bool
}

// SnapshotCache holds one fixed slot per category for the lifetime of the
// process; there is no eviction. Each slot's mutex is held across its
// refresh, so concurrent requests for one category never trigger duplicate
// upstream calls: the second caller blocks, then sees the fresh entry.
type SnapshotCache struct {
	window time.Duration
	now    func() time.Time
	slots  map[domain.Category]*slot
}

func NewSnapshotCache(fetchers []adapters.SnapshotFetcher, window time.Duration) *SnapshotCache {
	if window <= 0 {
		window = DefaultFreshWindow
	}
	slots := make(map[domain.Category]*slot, len(fetchers))
	for _, f := range fetchers {
		slots[f.Category()] = &slot{fetcher: f}
	}
	return &SnapshotCache{window: window, now: time.Now, slots: slots}
}

// GetOrRefresh returns the cached snapshot when it is still within the
// freshness window, otherwise refreshes the slot and stores the new snapshot
// unconditionally, even when the new fetch failed too.
func (c *SnapshotCache) GetOrRefresh(ctx context.Context, category domain.Category) domain.Snapshot {
	s, ok := c.slots[category]
	if !ok {
		return domain.FailedSnapshot(category, "Invalid category.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := c.now()
	if s.populated && now.Sub(s.fetchedAt) < c.window {
		return s.snap
	}

	snap := s.fetcher.Fetch(ctx)
	snap.FetchedAt = now
	s.snap = snap
	s.fetchedAt = now
	s.populated = true

	if snap.Failed() {
		logrus.WithField("category", category).Warnf("Cached failed snapshot: %s", snap.FailureCause)
	}
	return snap
}

// Invalidate drops the stored entry so the next request refreshes.
func (c *SnapshotCache) Invalidate(category domain.Category) {
	s, ok := c.slots[category]
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.populated = false
	s.snap = domain.Snapshot{}
	s.fetchedAt = time.Time{}
}
