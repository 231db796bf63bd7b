package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

func TestTriggerSuppressedWhileInFlight(t *testing.T) {
	m := telemetry.New()
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) *metrics.Snapshot {
		close(started)
		<-release
		return liveSnapshot(4)
	}
	r := NewRefresher(load, newTestCoordinator(t, m), time.Minute, nil, m)

	result := make(chan bool)
	go func() { result <- r.Trigger(t.Context()) }()
	<-started

	assert.False(t, r.Trigger(t.Context()), "second trigger should be suppressed")
	assert.False(t, r.Trigger(t.Context()))
	close(release)
	assert.True(t, <-result)

	assert.Equal(t, 2.0, counterValue(t, m.Registry, "paradoxdash_refresh_suppressed_total"))
	assert.Equal(t, SourceLive, r.coord.View().Source)
}

func TestTriggerNilLoad(t *testing.T) {
	r := NewRefresher(nil, newTestCoordinator(t, nil), time.Minute, nil, nil)
	assert.True(t, r.Trigger(t.Context()))
	assert.Equal(t, SourceSample, r.coord.View().Source)
}

func TestPeriodicRefreshNeverOverlaps(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var inFlight, maxInFlight, loads atomic.Int32
	load := func(ctx context.Context) *metrics.Snapshot {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			cur := maxInFlight.Load()
			if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
				break
			}
		}
		loads.Add(1)
		select {
		case <-time.After(25 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	}

	m := telemetry.New()
	r := NewRefresher(load, newTestCoordinator(t, m), 2*time.Millisecond, nil, m)

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Positive(t, loads.Load())
	assert.Positive(t, counterValue(t, m.Registry, "paradoxdash_refresh_suppressed_total"))
}

func TestRunWithoutInterval(t *testing.T) {
	r := NewRefresher(nil, newTestCoordinator(t, nil), 0, nil, nil)
	assert.NoError(t, r.Run(t.Context()))
}
