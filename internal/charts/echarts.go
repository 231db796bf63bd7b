package charts

import (
	"encoding/json"
	"fmt"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EChartsName is the renderer name of the go-echarts capability.
const EChartsName = "echarts"

// EChartsRenderer draws charts with go-echarts.
type EChartsRenderer struct {
	assetsHost string
}

// NewEChartsRenderer returns a go-echarts renderer. An empty assetsHost
// keeps the go-echarts default CDN.
func NewEChartsRenderer(assetsHost string) *EChartsRenderer {
	return &EChartsRenderer{assetsHost: assetsHost}
}

func (r *EChartsRenderer) Name() string { return EChartsName }

func (r *EChartsRenderer) NewLine(spec ChartSpec) (Surface, error) {
	if len(spec.Axes) == 0 {
		return nil, fmt.Errorf("chart %s declares no value axis", spec.Name)
	}
	line := echarts.NewLine()
	line.SetGlobalOptions(r.globalOpts(spec)...)
	for _, a := range spec.Axes[1:] {
		line.ExtendYAxis(yAxis(a))
	}
	return &echartsSurface{line: line}, nil
}

func (r *EChartsRenderer) NewBar(spec ChartSpec) (Surface, error) {
	if len(spec.Axes) == 0 {
		return nil, fmt.Errorf("chart %s declares no value axis", spec.Name)
	}
	bar := echarts.NewBar()
	bar.SetGlobalOptions(r.globalOpts(spec)...)
	for _, a := range spec.Axes[1:] {
		bar.ExtendYAxis(yAxis(a))
	}
	return &echartsSurface{bar: bar}, nil
}

func (r *EChartsRenderer) globalOpts(spec ChartSpec) []echarts.GlobalOpts {
	init := opts.Initialization{
		PageTitle: spec.Title,
		ChartID:   spec.Mount,
		Width:     "100%",
		Height:    "380px",
	}
	if r.assetsHost != "" {
		init.AssetsHost = r.assetsHost
	}

	legend := opts.Legend{Show: opts.Bool(true)}
	if spec.Legend == "top" {
		legend.Top = "30"
	} else {
		legend.Bottom = "0"
	}

	xAxis := opts.XAxis{Type: "category"}
	if spec.XLabel != "" {
		xAxis.Name = spec.XLabel
	}

	return []echarts.GlobalOpts{
		echarts.WithInitializationOpts(init),
		echarts.WithTitleOpts(opts.Title{Title: spec.Title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(legend),
		echarts.WithXAxisOpts(xAxis),
		echarts.WithYAxisOpts(yAxis(spec.Axes[0])),
	}
}

func yAxis(a Axis) opts.YAxis {
	y := opts.YAxis{
		Name:     a.Label,
		Type:     "value",
		Min:      a.Min,
		Max:      a.Max,
		Position: a.Position,
	}
	if a.HideGrid {
		y.SplitLine = &opts.SplitLine{Show: opts.Bool(false)}
	}
	return y
}

// echartsSurface wraps exactly one of line or bar.
type echartsSurface struct {
	line *echarts.Line
	bar  *echarts.Bar
}

func (s *echartsSurface) SetLabels(labels []string) {
	if s.line != nil {
		s.line.SetXAxis(labels)
		return
	}
	s.bar.SetXAxis(labels)
}

func (s *echartsSurface) SetSeries(index int, data []float64) {
	if s.line != nil {
		if index < len(s.line.MultiSeries) {
			s.line.MultiSeries[index].Data = lineData(data)
		}
		return
	}
	if index < len(s.bar.MultiSeries) {
		s.bar.MultiSeries[index].Data = barData(data)
	}
}

func (s *echartsSurface) AppendSeries(spec SeriesSpec, data []float64) {
	if s.line != nil {
		style := opts.LineStyle{Color: spec.Color}
		if spec.Dashed {
			style.Type = "dashed"
		}
		s.line.AddSeries(spec.Label, lineData(data),
			echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(spec.Smooth), YAxisIndex: spec.Axis}),
			echarts.WithLineStyleOpts(style),
			echarts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Color}),
		)
		return
	}
	s.bar.AddSeries(spec.Label, barData(data),
		echarts.WithItemStyleOpts(opts.ItemStyle{Color: spec.Color}),
	)
}

func (s *echartsSurface) RemoveSeries(index int) {
	if s.line != nil {
		if index < len(s.line.MultiSeries) {
			s.line.MultiSeries = append(s.line.MultiSeries[:index], s.line.MultiSeries[index+1:]...)
		}
		return
	}
	if index < len(s.bar.MultiSeries) {
		s.bar.MultiSeries = append(s.bar.MultiSeries[:index], s.bar.MultiSeries[index+1:]...)
	}
}

func (s *echartsSurface) Redraw() (json.RawMessage, error) {
	var doc map[string]interface{}
	if s.line != nil {
		s.line.Validate()
		doc = s.line.JSON()
	} else {
		s.bar.Validate()
		doc = s.bar.JSON()
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding chart option: %w", err)
	}
	return b, nil
}

func (s *echartsSurface) Render(w io.Writer) error {
	if s.line != nil {
		return s.line.Render(w)
	}
	return s.bar.Render(w)
}

func (s *echartsSurface) charter() components.Charter {
	if s.line != nil {
		return s.line
	}
	return s.bar
}

// ExportPage writes a standalone HTML page holding every handle's chart.
// All handles must have been drawn by the echarts renderer.
func ExportPage(w io.Writer, title string, handles []*Handle) error {
	page := components.NewPage()
	page.PageTitle = title
	for _, h := range handles {
		s, ok := h.surface.(*echartsSurface)
		if !ok {
			return fmt.Errorf("chart %s was not drawn by the %s renderer", h.Spec.Name, EChartsName)
		}
		page.AddCharts(s.charter())
	}
	return page.Render(w)
}

func lineData(v []float64) []opts.LineData {
	out := make([]opts.LineData, len(v))
	for i, x := range v {
		out[i] = opts.LineData{Value: x}
	}
	return out
}

func barData(v []float64) []opts.BarData {
	out := make([]opts.BarData, len(v))
	for i, x := range v {
		out[i] = opts.BarData{Value: x}
	}
	return out
}
