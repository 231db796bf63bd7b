package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/paradoxdash/internal/metrics"
)

// metricsResponse is the JSON response for the current snapshot.
type metricsResponse struct {
	Source    string            `json:"source"`
	UpdatedAt time.Time         `json:"updated_at"`
	Snapshot  *metrics.Snapshot `json:"snapshot"`
}

// refreshResponse is the JSON response for a manual refresh.
type refreshResponse struct {
	Cycle     string    `json:"cycle"`
	Applied   bool      `json:"applied"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Dashboard) handleMetrics(w http.ResponseWriter, r *http.Request) {
	v := d.coord.View()
	writeJSON(w, http.StatusOK, metricsResponse{
		Source:    v.Source,
		UpdatedAt: v.UpdatedAt,
		Snapshot:  v.Snapshot,
	})
}

func (d *Dashboard) handleCharts(w http.ResponseWriter, r *http.Request) {
	v := d.coord.View()
	out := v.Charts
	if out == nil {
		out = []ChartView{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (d *Dashboard) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var buf bytes.Buffer
	found, err := d.coord.RenderChart(name, &buf)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chart: " + name})
		return
	}
	if err != nil {
		d.logger.Error("rendering chart", zap.String("chart", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (d *Dashboard) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res, ran := d.refresher.cycle(r.Context())
	if !ran {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "refresh already in flight"})
		return
	}
	v := d.coord.View()
	writeJSON(w, http.StatusOK, refreshResponse{
		Cycle:     res.ID,
		Applied:   res.Applied,
		Source:    v.Source,
		UpdatedAt: v.UpdatedAt,
	})
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	initial, err := d.coord.RedrawMessage()
	if err != nil {
		d.logger.Error("encoding initial redraw", zap.Error(err))
		initial = nil
	}
	d.hub.Serve(w, r, initial)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
