package charts

import (
	"encoding/json"
	"io"
)

// Renderer is the charting capability. It builds line and bar surfaces from a
// chart spec; series are attached afterwards through the surface.
type Renderer interface {
	Name() string
	NewLine(spec ChartSpec) (Surface, error)
	NewBar(spec ChartSpec) (Surface, error)
}

// Surface is a live rendering object. It is mutated in place so that a
// redraw keeps the identity of the chart the page already shows.
type Surface interface {
	SetLabels(labels []string)
	SetSeries(index int, data []float64)
	AppendSeries(spec SeriesSpec, data []float64)
	RemoveSeries(index int)
	// Redraw commits pending changes and returns the chart option document
	// that a browser-side chart instance can apply.
	Redraw() (json.RawMessage, error)
	// Render writes a standalone HTML page for the chart.
	Render(w io.Writer) error
}

// LookupRenderer returns the renderer registered under name, or nil when no
// such capability is available.
func LookupRenderer(name string, assetsHost string) Renderer {
	switch name {
	case EChartsName:
		return NewEChartsRenderer(assetsHost)
	}
	return nil
}

func newSurface(r Renderer, spec ChartSpec) (Surface, error) {
	if spec.Kind == KindBar {
		return r.NewBar(spec)
	}
	return r.NewLine(spec)
}
