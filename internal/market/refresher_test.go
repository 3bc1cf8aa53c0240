package market

import (
	"context"
	"testing"
	"time"

	"marketbot/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRefresher_Constructs(t *testing.T) {
	r := NewRefresher(new(MockSnapshotCache), 10*time.Second)
	require.NotNil(t, r)
	require.Nil(t, r.sched)
}

func TestRefresher_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	r := NewRefresher(new(MockSnapshotCache), 10*time.Second)
	err := r.Shutdown()
	require.NoError(t, err)
	require.Nil(t, r.sched)
}

func TestRefresher_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	r := NewRefresher(new(MockSnapshotCache), 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, r.Start(ctx))
	require.NotNil(t, r.sched)

	cancel()

	// Wait until r.sched becomes nil (Shutdown sets it to nil)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.sched == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.Nil(t, r.sched, "expected refresher to be shutdown after ctx cancel")
}

func TestRefresher_Shutdown_AfterStart_Idempotent(t *testing.T) {
	cache := new(MockSnapshotCache)
	cache.On("GetOrRefresh", mock.Anything, mock.Anything).
		Return(successSnapshot(domain.CategoryCrypto, "BTC", 64000)).Maybe()
	r := NewRefresher(cache, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, r.Start(ctx))
	require.NotNil(t, r.sched)

	require.NoError(t, r.Shutdown())
	require.Nil(t, r.sched)

	require.NoError(t, r.Shutdown())
}

func TestNewRefresher_DefaultsIntervalWhenInvalid(t *testing.T) {
	r := NewRefresher(new(MockSnapshotCache), 0)
	require.Equal(t, DefaultFreshWindow, r.interval)
}
