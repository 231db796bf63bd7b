package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

// liveSnapshot returns a valid snapshot of n turns for agents alpha and beta.
func liveSnapshot(n int) *metrics.Snapshot {
	s := &metrics.Snapshot{
		Diversity: map[string][]float64{},
		SelfRef:   map[string][]float64{},
	}
	for i := 0; i < n; i++ {
		s.Turns = append(s.Turns, i+1)
		s.Convergence = append(s.Convergence, 0.25)
		s.Chaos = append(s.Chaos, 50)
		s.Exposure = append(s.Exposure, 40)
		s.Faction = append(s.Faction, 12)
	}
	for _, a := range []string{"alpha", "beta"} {
		div := make([]float64, n)
		ref := make([]float64, n)
		for i := range div {
			div[i] = 0.9
			ref[i] = 0.15
		}
		s.Diversity[a] = div
		s.SelfRef[a] = ref
	}
	return s
}

func newTestCoordinator(t *testing.T, m *telemetry.Metrics) *Coordinator {
	t.Helper()
	reg := charts.NewRegistry(charts.NewEChartsRenderer(""), nil)
	_, err := reg.CreateAll(charts.NewLayout(charts.DefaultMounts...), metrics.Sample())
	require.NoError(t, err)
	return NewCoordinator(reg, metrics.Sample(), nil, nil, m)
}

func bootstrapTest(t *testing.T, opts Options) *Dashboard {
	t.Helper()
	if opts.Renderer == nil {
		opts.Renderer = charts.NewEChartsRenderer("")
	}
	if opts.Layout == nil {
		opts.Layout = charts.NewLayout(charts.DefaultMounts...)
	}
	d, err := Bootstrap(t.Context(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func serveSnapshot(t *testing.T, s *metrics.Snapshot) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(s)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
