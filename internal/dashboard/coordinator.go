package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/paradoxdash/internal/charts"
	"github.com/ziadkadry99/paradoxdash/internal/metrics"
	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

// Where the displayed data came from.
const (
	SourceSample = "sample"
	SourceLive   = "live"
)

// SeriesView is one bound series as currently shown.
type SeriesView struct {
	Label string    `json:"label"`
	Key   string    `json:"key"`
	Data  []float64 `json:"data"`
}

// ChartView is a read-only copy of a chart handle.
type ChartView struct {
	Name   string          `json:"name"`
	Mount  string          `json:"mount"`
	Title  string          `json:"title"`
	Labels []string        `json:"labels"`
	Series []SeriesView    `json:"series"`
	Option json.RawMessage `json:"option,omitempty"`
}

// View is a consistent copy of the displayed state.
type View struct {
	Snapshot  *metrics.Snapshot `json:"snapshot"`
	Source    string            `json:"source"`
	UpdatedAt time.Time         `json:"updated_at"`
	Charts    []ChartView       `json:"charts"`
}

// Coordinator merges validated snapshots into the chart registry. The
// registry is only mutated inside Reconcile, under the write lock.
type Coordinator struct {
	mu        sync.RWMutex
	registry  *charts.Registry
	current   *metrics.Snapshot
	source    string
	updatedAt time.Time

	hub     *Hub
	logger  *zap.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// NewCoordinator wraps a registry whose charts were created from initial.
// hub, logger and m may be nil.
func NewCoordinator(reg *charts.Registry, initial *metrics.Snapshot, hub *Hub, logger *zap.Logger, m *telemetry.Metrics) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		registry: reg,
		current:  initial.Clone(),
		source:   SourceSample,
		hub:      hub,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
	c.updatedAt = c.now()
	return c
}

// Reconcile applies s to every chart and reports whether anything changed.
// A nil, invalid or unapplicable snapshot leaves the charts untouched.
func (c *Coordinator) Reconcile(ctx context.Context, s *metrics.Snapshot) bool {
	if s == nil {
		c.metrics.ObserveReconcile(telemetry.ReconcileSkipped)
		return false
	}
	if err := ctx.Err(); err != nil {
		c.metrics.ObserveReconcile(telemetry.ReconcileSkipped)
		return false
	}
	if err := s.Validate(); err != nil {
		c.logger.Warn("snapshot rejected", zap.Error(err))
		c.metrics.ObserveReconcile(telemetry.ReconcileRejected)
		return false
	}

	c.mu.Lock()
	if err := c.registry.ApplySnapshot(s); err != nil {
		c.mu.Unlock()
		c.logger.Warn("snapshot not applied", zap.Error(err))
		c.metrics.ObserveReconcile(telemetry.ReconcileRejected)
		return false
	}
	c.current = s.Clone()
	c.source = SourceLive
	c.updatedAt = c.now()
	msg, err := c.redrawMessageLocked()
	c.mu.Unlock()

	c.metrics.ObserveReconcile(telemetry.ReconcileApplied)
	c.logger.Info("charts updated", zap.Int("turns", len(s.Turns)))

	if err != nil {
		c.logger.Error("encoding redraw message", zap.Error(err))
		return true
	}
	if c.hub != nil {
		c.hub.Broadcast(msg)
	}
	return true
}

// View returns a copy of the displayed state.
func (c *Coordinator) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := View{
		Snapshot:  c.current.Clone(),
		Source:    c.source,
		UpdatedAt: c.updatedAt,
	}
	for _, h := range c.registry.Handles() {
		v.Charts = append(v.Charts, chartView(h))
	}
	return v
}

// Chart returns the view of one chart by name.
func (c *Coordinator) Chart(name string) (ChartView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.registry.Handle(name)
	if !ok {
		return ChartView{}, false
	}
	return chartView(h), true
}

// RenderChart writes the standalone page of one chart.
func (c *Coordinator) RenderChart(name string, w io.Writer) (bool, error) {
	// Rendering finalizes renderer state, so it takes the write lock.
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.registry.Handle(name)
	if !ok {
		return false, nil
	}
	return true, h.Surface().Render(w)
}

// Export writes every chart on one standalone page.
func (c *Coordinator) Export(w io.Writer, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return charts.ExportPage(w, title, c.registry.Handles())
}

// RedrawMessage returns the live-channel message for the current state.
func (c *Coordinator) RedrawMessage() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redrawMessageLocked()
}

type redrawMessage struct {
	Type      string                     `json:"type"`
	Source    string                     `json:"source"`
	UpdatedAt time.Time                  `json:"updated_at"`
	Charts    map[string]json.RawMessage `json:"charts"`
}

func (c *Coordinator) redrawMessageLocked() ([]byte, error) {
	msg := redrawMessage{
		Type:      "redraw",
		Source:    c.source,
		UpdatedAt: c.updatedAt,
		Charts:    make(map[string]json.RawMessage),
	}
	for _, h := range c.registry.Handles() {
		msg.Charts[h.Spec.Mount] = h.Option()
	}
	return json.Marshal(msg)
}

func chartView(h *charts.Handle) ChartView {
	v := ChartView{
		Name:   h.Name(),
		Mount:  h.Spec.Mount,
		Title:  h.Spec.Title,
		Labels: h.Labels(),
		Option: h.Option(),
	}
	for _, s := range h.Series() {
		data, _ := h.Data(s.Key)
		v.Series = append(v.Series, SeriesView{Label: s.Label, Key: s.Key, Data: data})
	}
	return v
}
