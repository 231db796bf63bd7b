package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/metrics"
)

func TestServeIndex(t *testing.T) {
	notes, err := RenderNotes([]byte("Agents **alpha** and beta."))
	require.NoError(t, err)
	d := bootstrapTest(t, Options{Title: "The Jeff Paradox", Notes: notes})
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "<title>The Jeff Paradox</title>")
	assert.Contains(t, body, "<strong>alpha</strong>")
	assert.Contains(t, body, DefaultAssetsHost+"echarts.min.js")
	for _, mount := range charts.DefaultMounts {
		assert.Contains(t, body, `id="`+mount+`"`)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	d := bootstrapTest(t, Options{})
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp metricsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, SourceSample, resp.Source)
	assert.Equal(t, metrics.Sample().Turns, resp.Snapshot.Turns)
}

func TestChartsEndpoint(t *testing.T) {
	d := bootstrapTest(t, Options{Layout: charts.NewLayout(charts.MountSelfRef)})
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []ChartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, charts.ChartSelfRef, resp[0].Name)
	require.Len(t, resp[0].Series, 2)
	assert.Equal(t, "Alpha Self-Ref", resp[0].Series[0].Label)
	assert.NotEmpty(t, resp[0].Option)
}

func TestChartsEndpointEmptyLayout(t *testing.T) {
	d := bootstrapTest(t, Options{Layout: charts.NewLayout()})
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestChartPage(t *testing.T) {
	d := bootstrapTest(t, Options{})
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/charts/"+charts.ChartConvergence, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), charts.MountConvergence)

	req = httptest.NewRequest(http.MethodGet, "/charts/nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var blocking bool
	load := func(ctx context.Context) *metrics.Snapshot {
		if blocking {
			started <- struct{}{}
			<-release
		}
		return liveSnapshot(6)
	}
	d := bootstrapTest(t, Options{Load: load})
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp refreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Cycle)
	assert.True(t, resp.Applied)
	assert.Equal(t, SourceLive, resp.Source)

	// A cycle in flight turns the next request away.
	blocking = true
	done := make(chan bool)
	go func() { done <- d.Refresher().Trigger(context.Background()) }()
	<-started

	req = httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "in flight"))

	close(release)
	assert.True(t, <-done)
}
