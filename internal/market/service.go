package market

import (
	"context"
	"time"

	"marketbot/internal/adapters"
	"marketbot/internal/domain"

	"github.com/sirupsen/logrus"
)

// DefaultCommodityTimeout bounds the whole cache-or-fetch path for the
// commodity category, on top of the per-HTTP-call timeout. The basket walks
// symbols through the quota limiter, so a cold fetch can take a while.
const DefaultCommodityTimeout = 30 * time.Second

type Service struct {
	cache            adapters.SnapshotCache
	commodityTimeout time.Duration
}

func NewService(cache adapters.SnapshotCache, commodityTimeout time.Duration) *Service {
	if commodityTimeout <= 0 {
		commodityTimeout = DefaultCommodityTimeout
	}
	return &Service{cache: cache, commodityTimeout: commodityTimeout}
}

// Snapshot serves a category from the cache, refreshing on demand. The
// commodity path is wrapped in a hard timeout; on expiry the refresh keeps
// running and commits whatever it produces, while the caller gets
// domain.ErrSnapshotTimeout to report a timeout-specific message.
func (s *Service) Snapshot(ctx context.Context, category domain.Category) (domain.Snapshot, error) {
	if !domain.ValidCategory(category) {
		return domain.Snapshot{}, domain.ErrUnknownCategory
	}
	if category != domain.CategoryCommodity {
		return s.cache.GetOrRefresh(ctx, category), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.commodityTimeout)
	defer cancel()

	done := make(chan domain.Snapshot, 1)
	go func() {
		// Detached from the timeout on purpose: the slot is left with
		// whatever the fetcher committed.
		done <- s.cache.GetOrRefresh(context.WithoutCancel(ctx), category)
	}()

	select {
	case snap := <-done:
		return snap, nil
	case <-timeoutCtx.Done():
		logrus.Errorf("Fetching commodity prices timed out after %s", s.commodityTimeout)
		return domain.Snapshot{}, domain.ErrSnapshotTimeout
	}
}

// Invalidate exposes cache invalidation for the ops API.
func (s *Service) Invalidate(category domain.Category) error {
	if !domain.ValidCategory(category) {
		return domain.ErrUnknownCategory
	}
	s.cache.Invalidate(category)
	return nil
}
