package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/loader"
	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

func TestBootstrapWithoutRenderer(t *testing.T) {
	d, err := Bootstrap(t.Context(), Options{Layout: charts.NewLayout(charts.DefaultMounts...)})
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrNoRenderer))
}

func TestBootstrapUnreachableSourceKeepsSample(t *testing.T) {
	l := loader.New(loader.Config{Source: "http://127.0.0.1:1/metrics.json", Timeout: 500 * time.Millisecond}, nil, nil)
	d := bootstrapTest(t, Options{Load: l.Load})

	v := d.Coordinator().View()
	assert.Equal(t, SourceSample, v.Source)
	require.Len(t, v.Charts, 4)

	names := make([]string, len(v.Charts))
	for i, c := range v.Charts {
		names[i] = c.Name
	}
	assert.Equal(t, []string{charts.ChartConvergence, charts.ChartGameState, charts.ChartVocabCompare, charts.ChartSelfRef}, names)

	conv := v.Charts[0]
	require.NotEmpty(t, conv.Labels)
	assert.Equal(t, "1", conv.Labels[0])
	require.NotEmpty(t, conv.Series)
	assert.Equal(t, metrics.KeyConvergence, conv.Series[0].Key)
	assert.Equal(t, 0.58, conv.Series[0].Data[0])
	assert.Equal(t, metrics.Sample(), v.Snapshot)
}

func TestBootstrapMissingMountSkipsChart(t *testing.T) {
	d := bootstrapTest(t, Options{Layout: charts.NewLayout(charts.MountConvergence, charts.MountSelfRef)})

	v := d.Coordinator().View()
	require.Len(t, v.Charts, 2)
	assert.Equal(t, charts.ChartConvergence, v.Charts[0].Name)
	assert.Equal(t, charts.ChartSelfRef, v.Charts[1].Name)
}

func TestBootstrapAppliesLiveSnapshot(t *testing.T) {
	srv := serveSnapshot(t, liveSnapshot(20))
	l := loader.New(loader.Config{Source: srv.URL}, nil, nil)
	d := bootstrapTest(t, Options{Load: l.Load})

	v := d.Coordinator().View()
	assert.Equal(t, SourceLive, v.Source)
	for _, c := range v.Charts {
		if c.Name == charts.ChartVocabCompare {
			continue
		}
		assert.Len(t, c.Labels, 20, c.Name)
		for _, s := range c.Series {
			assert.Len(t, s.Data, 20, s.Key)
		}
	}
}

func TestBootstrapPeriodicRefresh(t *testing.T) {
	var calls int
	done := make(chan struct{})
	load := func(ctx context.Context) *metrics.Snapshot {
		calls++
		if calls == 3 {
			close(done)
		}
		return liveSnapshot(calls + 1)
	}
	d := bootstrapTest(t, Options{Load: load, RefreshEnabled: true, RefreshInterval: 10 * time.Millisecond})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("periodic refresh did not run")
	}
	require.NoError(t, d.Close())
	assert.Equal(t, SourceLive, d.Coordinator().View().Source)
}

func TestReconcileNilIsNoop(t *testing.T) {
	c := newTestCoordinator(t, nil)
	before := c.View()

	assert.False(t, c.Reconcile(t.Context(), nil))
	assert.Equal(t, before, c.View())
}

func TestReconcileInvalidIsNoop(t *testing.T) {
	m := telemetry.New()
	c := newTestCoordinator(t, m)
	before := c.View()

	bad := liveSnapshot(5)
	bad.Convergence = bad.Convergence[:4]
	assert.False(t, c.Reconcile(t.Context(), bad))

	outOfRange := liveSnapshot(5)
	outOfRange.SelfRef["beta"][2] = 1.5
	assert.False(t, c.Reconcile(t.Context(), outOfRange))

	assert.Equal(t, before, c.View())
	assert.Equal(t, 2.0, counterValue(t, m.Registry, "paradoxdash_reconcile_total"))
}

func TestReconcileReplacesSampleAgents(t *testing.T) {
	c := newTestCoordinator(t, nil)

	s := liveSnapshot(3)
	s.Diversity = map[string][]float64{"jeff": {0.5, 0.6, 0.7}}
	s.SelfRef = map[string][]float64{"jeff": {0.01, 0.02, 0.03}}
	require.True(t, c.Reconcile(t.Context(), s))

	v := c.View()
	assert.Equal(t, SourceLive, v.Source)
	assert.Equal(t, s, v.Snapshot)

	conv, ok := c.Chart(charts.ChartConvergence)
	require.True(t, ok)
	require.Len(t, conv.Series, 2)
	assert.Equal(t, "Jeff Diversity", conv.Series[1].Label)
	assert.Equal(t, []float64{0.5, 0.6, 0.7}, conv.Series[1].Data)
	assert.NotContains(t, string(conv.Option), "Alpha Diversity")

	// A later load with only part of the agents still applies.
	partial := liveSnapshot(4)
	delete(partial.SelfRef, "beta")
	delete(partial.Diversity, "beta")
	require.True(t, c.Reconcile(t.Context(), partial))
	selfRef, _ := c.Chart(charts.ChartSelfRef)
	require.Len(t, selfRef.Series, 1)
	assert.Equal(t, "Alpha Self-Ref", selfRef.Series[0].Label)
}

func TestReconcileApplies(t *testing.T) {
	c := newTestCoordinator(t, nil)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	s := liveSnapshot(8)
	require.True(t, c.Reconcile(t.Context(), s))

	v := c.View()
	assert.Equal(t, SourceLive, v.Source)
	assert.Equal(t, start, v.UpdatedAt)
	assert.Equal(t, s, v.Snapshot)

	// The view is a copy.
	v.Snapshot.Turns[0] = 99
	assert.Equal(t, 1, c.View().Snapshot.Turns[0])

	conv, ok := c.Chart(charts.ChartConvergence)
	require.True(t, ok)
	assert.Len(t, conv.Labels, 8)
	assert.Equal(t, 0.25, conv.Series[0].Data[7])
}

func TestReconcileCancelledContext(t *testing.T) {
	c := newTestCoordinator(t, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.False(t, c.Reconcile(ctx, liveSnapshot(3)))
	assert.Equal(t, SourceSample, c.View().Source)
}
