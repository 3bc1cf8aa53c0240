package market

import (
	"context"
	"time"

	"marketbot/internal/adapters"
	"marketbot/internal/domain"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Refresher warms the snapshot cache in the background so chat requests
// mostly hit fresh entries. On-demand semantics are untouched: the job goes
// through GetOrRefresh like any other caller.
type Refresher struct {
	cache    adapters.SnapshotCache
	interval time.Duration
	// -----
	sched gocron.Scheduler
}

func (r *Refresher) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	r.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		warmSnapshots(jobCtx, execID, r.cache)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := r.Shutdown(); sdErr != nil {
			logrus.Errorf("Refresher shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (r *Refresher) Shutdown() error {
	if r.sched == nil {
		return nil
	}
	err := r.sched.Shutdown()
	r.sched = nil
	return err
}

func warmSnapshots(ctx context.Context, execID string, cache adapters.SnapshotCache) {
	for _, category := range domain.Categories() {
		if ctx.Err() != nil {
			return
		}
		snap := cache.GetOrRefresh(ctx, category)
		if snap.Failed() {
			logrus.Warnf("Warm refresh for %s failed: %s; execID: %s", category, snap.FailureCause, execID)
		}
	}
	logrus.Infof("Warm refresh pass complete; execID: %s", execID)
}

func NewRefresher(cache adapters.SnapshotCache, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultFreshWindow
	}
	return &Refresher{cache: cache, interval: interval}
}
