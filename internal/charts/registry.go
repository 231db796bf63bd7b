// Package charts holds the dashboard's visualizations: their static
// configuration, the live handles that own rendering surfaces, and the
// renderer capability those surfaces come from.
package charts

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/paradoxdash/internal/metrics"
)

// ErrUnboundSeries is returned by ApplySnapshot when a snapshot lacks data
// for a fixed series a chart is showing.
var ErrUnboundSeries = errors.New("snapshot missing bound series")

type binding struct {
	spec SeriesSpec
	data []float64
}

// Handle is one created visualization. It owns its surface and remembers
// which data key feeds each series, so later snapshots can be applied
// without rebuilding the chart.
type Handle struct {
	Spec ChartSpec

	def      definition
	surface  Surface
	labels   []string
	bindings []binding
	option   json.RawMessage
}

// Name returns the chart name.
func (h *Handle) Name() string { return h.Spec.Name }

// Labels returns a copy of the label axis.
func (h *Handle) Labels() []string {
	return append([]string(nil), h.labels...)
}

// Series returns the bound series specs in display order.
func (h *Handle) Series() []SeriesSpec {
	out := make([]SeriesSpec, len(h.bindings))
	for i, b := range h.bindings {
		out[i] = b.spec
	}
	return out
}

// Data returns a copy of the data shown for a data key.
func (h *Handle) Data(key string) ([]float64, bool) {
	for _, b := range h.bindings {
		if b.spec.Key == key {
			return append([]float64(nil), b.data...), true
		}
	}
	return nil, false
}

// Option returns the option document produced by the last redraw.
func (h *Handle) Option() json.RawMessage { return h.option }

// Surface returns the rendering object behind the handle.
func (h *Handle) Surface() Surface { return h.surface }

func (h *Handle) redraw() error {
	opt, err := h.surface.Redraw()
	if err != nil {
		return fmt.Errorf("redrawing %s: %w", h.Spec.Name, err)
	}
	h.option = opt
	return nil
}

// Registry creates the dashboard's charts and applies snapshots to them. It
// is not safe for concurrent use; callers serialize access.
type Registry struct {
	renderer Renderer
	logger   *zap.Logger
	handles  []*Handle
}

// NewRegistry returns an empty registry drawing through r.
func NewRegistry(r Renderer, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{renderer: r, logger: logger}
}

// CreateAll constructs one visualization per concern whose mount point is
// present in layout, seeded from initial. Charts without a mount point are
// skipped.
func (r *Registry) CreateAll(layout Layout, initial *metrics.Snapshot) (map[string]*Handle, error) {
	if r.renderer == nil {
		return nil, errors.New("no renderer")
	}
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}

	out := make(map[string]*Handle)
	for _, def := range catalog() {
		if !layout.Has(def.spec.Mount) {
			r.logger.Debug("mount point absent, skipping chart",
				zap.String("chart", def.spec.Name), zap.String("mount", def.spec.Mount))
			continue
		}
		h, err := r.create(def, initial)
		if err != nil {
			return nil, err
		}
		r.handles = append(r.handles, h)
		out[h.Spec.Name] = h
	}
	return out, nil
}

func (r *Registry) create(def definition, s *metrics.Snapshot) (*Handle, error) {
	surface, err := newSurface(r.renderer, def.spec)
	if err != nil {
		return nil, fmt.Errorf("creating %s chart: %w", def.spec.Name, err)
	}
	h := &Handle{Spec: def.spec, def: def, surface: surface}

	h.labels = def.labels(s)
	surface.SetLabels(h.Labels())
	for _, spec := range def.series(s) {
		data, ok := def.data(s, spec, nil)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundSeries, spec.Key)
		}
		h.bindings = append(h.bindings, binding{spec: spec, data: data})
		surface.AppendSeries(spec, append([]float64(nil), data...))
	}
	if err := h.redraw(); err != nil {
		return nil, err
	}
	r.logger.Debug("chart created",
		zap.String("chart", def.spec.Name), zap.Int("series", len(h.bindings)))
	return h, nil
}

// Handles returns the created handles in creation order.
func (r *Registry) Handles() []*Handle {
	return append([]*Handle(nil), r.handles...)
}

// Handle returns a handle by chart name.
func (r *Registry) Handle(name string) (*Handle, bool) {
	for _, h := range r.handles {
		if h.Spec.Name == name {
			return h, true
		}
	}
	return nil, false
}

type handleUpdate struct {
	h       *Handle
	labels  []string
	keep    []int // indexes of bindings still present, ascending
	data    [][]float64
	removed []binding
	appends []binding
}

// ApplySnapshot replaces every bound series and the label axis with the
// data in s and redraws each chart in place. Series of agents absent from s
// are removed and agents the charts have not shown yet get a new series.
// Every binding is resolved before any handle is touched, so a snapshot that
// cannot be applied changes nothing. A redraw failure does not stop the
// remaining charts from being updated; the failing chart keeps its previous
// option document and the failures are returned together.
func (r *Registry) ApplySnapshot(s *metrics.Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	updates := make([]handleUpdate, 0, len(r.handles))
	for _, h := range r.handles {
		u := handleUpdate{h: h, labels: h.def.labels(s)}
		bound := make(map[string]bool, len(h.bindings))
		for i, b := range h.bindings {
			bound[b.spec.Key] = true
			data, ok := h.def.data(s, b.spec, b.data)
			if !ok {
				if _, agent := metrics.SplitKey(b.spec.Key); agent == "" {
					return fmt.Errorf("%w: %s in %s chart", ErrUnboundSeries, b.spec.Key, h.Spec.Name)
				}
				u.removed = append(u.removed, b)
				continue
			}
			u.keep = append(u.keep, i)
			u.data = append(u.data, data)
		}
		for _, spec := range h.def.series(s) {
			if bound[spec.Key] {
				continue
			}
			data, ok := h.def.data(s, spec, nil)
			if !ok {
				continue
			}
			u.appends = append(u.appends, binding{spec: spec, data: data})
		}
		updates = append(updates, u)
	}

	var errs []error
	for _, u := range updates {
		h := u.h
		h.labels = u.labels
		h.surface.SetLabels(h.Labels())

		if len(u.removed) > 0 {
			// Remove from the highest index down so earlier indexes stay valid.
			kept := make(map[int]bool, len(u.keep))
			for _, i := range u.keep {
				kept[i] = true
			}
			for i := len(h.bindings) - 1; i >= 0; i-- {
				if !kept[i] {
					h.surface.RemoveSeries(i)
				}
			}
			for _, b := range u.removed {
				r.logger.Info("series removed",
					zap.String("chart", h.Spec.Name), zap.String("key", b.spec.Key))
			}
		}

		bindings := make([]binding, 0, len(u.keep)+len(u.appends))
		for j, i := range u.keep {
			b := h.bindings[i]
			b.data = u.data[j]
			bindings = append(bindings, b)
			h.surface.SetSeries(j, append([]float64(nil), b.data...))
		}
		h.bindings = bindings

		for _, b := range u.appends {
			h.bindings = append(h.bindings, b)
			h.surface.AppendSeries(b.spec, append([]float64(nil), b.data...))
			r.logger.Info("series added",
				zap.String("chart", h.Spec.Name), zap.String("key", b.spec.Key))
		}
		if err := h.redraw(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
