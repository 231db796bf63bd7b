package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

// LoadFunc fetches the latest snapshot, or nil when none is available.
type LoadFunc func(ctx context.Context) *metrics.Snapshot

// Refresher runs load-and-reconcile cycles, at most one at a time. A trigger
// that arrives while a cycle is in flight is dropped, not queued.
type Refresher struct {
	sem      *semaphore.Weighted
	load     LoadFunc
	coord    *Coordinator
	interval time.Duration
	logger   *zap.Logger
	metrics  *telemetry.Metrics
}

type cycleResult struct {
	ID      string
	Applied bool
}

// NewRefresher returns a refresher feeding coord from load. A nil load makes
// every cycle a no-op.
func NewRefresher(load LoadFunc, coord *Coordinator, interval time.Duration, logger *zap.Logger, m *telemetry.Metrics) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if load == nil {
		load = func(context.Context) *metrics.Snapshot { return nil }
	}
	return &Refresher{
		sem:      semaphore.NewWeighted(1),
		load:     load,
		coord:    coord,
		interval: interval,
		logger:   logger,
		metrics:  m,
	}
}

// Trigger runs one cycle unless another is in flight. It returns false when
// the trigger was suppressed.
func (r *Refresher) Trigger(ctx context.Context) bool {
	_, ran := r.cycle(ctx)
	return ran
}

func (r *Refresher) cycle(ctx context.Context) (cycleResult, bool) {
	if !r.sem.TryAcquire(1) {
		r.metrics.RefreshSuppressed()
		r.logger.Debug("refresh suppressed, cycle in flight")
		return cycleResult{}, false
	}
	defer r.sem.Release(1)

	res := cycleResult{ID: uuid.NewString()}
	start := time.Now()
	s := r.load(ctx)
	res.Applied = r.coord.Reconcile(ctx, s)
	r.logger.Debug("refresh cycle done",
		zap.String("cycle", res.ID),
		zap.Bool("applied", res.Applied),
		zap.Duration("took", time.Since(start)))
	return res, true
}

// Run triggers a cycle every interval until ctx is done. Ticks do not wait
// for the previous cycle, so a slow load makes later ticks suppress.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	r.logger.Info("periodic refresh started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("periodic refresh stopped")
			return nil
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Trigger(ctx)
			}()
		}
	}
}
