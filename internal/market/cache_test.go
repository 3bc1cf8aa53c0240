package market

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketbot/internal/adapters"
	"marketbot/internal/domain"

	"github.com/stretchr/testify/require"
)

// countingFetcher counts Fetch invocations and returns a scripted snapshot.
type countingFetcher struct {
	category domain.Category
	calls    atomic.Int64
	mu       sync.Mutex
	next     domain.Snapshot
	delay    time.Duration
}

func (f *countingFetcher) Category() domain.Category { return f.category }

func (f *countingFetcher) Fetch(ctx context.Context) domain.Snapshot {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}

func (f *countingFetcher) setNext(s domain.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = s
}

func successSnapshot(c domain.Category, label string, value float64) domain.Snapshot {
	return domain.Snapshot{
		Category: c,
		Items:    []domain.Item{{Label: label, Value: value, Available: true}},
	}
}

func newTestCache(f *countingFetcher) (*SnapshotCache, *time.Time) {
	cache := NewSnapshotCache([]adapters.SnapshotFetcher{f}, DefaultFreshWindow)
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestSnapshotCache_MissTriggersExactlyOneFetch(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto}
	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	cache, _ := newTestCache(f)

	snap := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)

	require.False(t, snap.Failed())
	require.Equal(t, int64(1), f.calls.Load())
}

func TestSnapshotCache_FreshHitDoesNotRefetch(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto}
	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	cache, now := newTestCache(f)

	first := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	*now = now.Add(4 * time.Minute)
	second := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)

	require.Equal(t, int64(1), f.calls.Load())
	require.Equal(t, first, second, "within the window the identical snapshot is served")
}

func TestSnapshotCache_ExpiryRefetchesAndOverwrites(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto}
	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	cache, now := newTestCache(f)

	first := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	require.InDelta(t, 64000, first.Items[0].Value, 1e-9)

	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 65000))
	*now = now.Add(5 * time.Minute) // exactly at the window boundary: expired

	second := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	require.Equal(t, int64(2), f.calls.Load())
	require.InDelta(t, 65000, second.Items[0].Value, 1e-9)
}

func TestSnapshotCache_FailureIsCachedForWindow(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto}
	f.setNext(domain.FailedSnapshot(domain.CategoryCrypto, "Unable to fetch cryptocurrency prices."))
	cache, now := newTestCache(f)

	first := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	require.True(t, first.Failed())

	*now = now.Add(time.Minute)
	second := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)

	require.Equal(t, int64(1), f.calls.Load(), "a cached failure must not hammer the upstream")
	require.True(t, second.Failed())
}

func TestSnapshotCache_ExpiredFailureIsOverwritten(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto}
	f.setNext(domain.FailedSnapshot(domain.CategoryCrypto, "down"))
	cache, now := newTestCache(f)

	_ = cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)

	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	*now = now.Add(6 * time.Minute)

	snap := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	require.Equal(t, int64(2), f.calls.Load())
	require.False(t, snap.Failed())
}

func TestSnapshotCache_ConcurrentMissSingleRefresh(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto, delay: 50 * time.Millisecond}
	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	cache := NewSnapshotCache([]adapters.SnapshotFetcher{f}, DefaultFreshWindow)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
			require.False(t, snap.Failed())
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), f.calls.Load(), "concurrent requests must share one refresh")
}

func TestSnapshotCache_InvalidateForcesRefetch(t *testing.T) {
	f := &countingFetcher{category: domain.CategoryCrypto}
	f.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	cache, _ := newTestCache(f)

	_ = cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	cache.Invalidate(domain.CategoryCrypto)
	_ = cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)

	require.Equal(t, int64(2), f.calls.Load())
}

func TestSnapshotCache_UnknownCategory(t *testing.T) {
	cache := NewSnapshotCache(nil, DefaultFreshWindow)

	snap := cache.GetOrRefresh(context.Background(), domain.Category("bogus"))
	require.True(t, snap.Failed())
	require.Equal(t, "Invalid category.", snap.FailureCause)

	// Invalidate on an unknown category is a no-op, not a panic.
	cache.Invalidate(domain.Category("bogus"))
}

func TestSnapshotCache_SlotsAreIndependent(t *testing.T) {
	crypto := &countingFetcher{category: domain.CategoryCrypto}
	crypto.setNext(successSnapshot(domain.CategoryCrypto, "BTC", 64000))
	uzs := &countingFetcher{category: domain.CategoryUZSBasket}
	uzs.setNext(successSnapshot(domain.CategoryUZSBasket, "USD", 0.000079))
	cache := NewSnapshotCache([]adapters.SnapshotFetcher{crypto, uzs}, DefaultFreshWindow)

	_ = cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)
	_ = cache.GetOrRefresh(context.Background(), domain.CategoryUZSBasket)
	_ = cache.GetOrRefresh(context.Background(), domain.CategoryCrypto)

	require.Equal(t, int64(1), crypto.calls.Load())
	require.Equal(t, int64(1), uzs.calls.Load())
}
