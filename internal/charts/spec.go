package charts

// Kind selects the renderer used for a chart.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// Mount point ids on the dashboard page.
const (
	MountConvergence  = "chart-convergence"
	MountGameState    = "chart-gamestate"
	MountVocabCompare = "chart-vocab-compare"
	MountSelfRef      = "chart-self-ref"
)

// DefaultMounts lists every mount point the dashboard page can host.
var DefaultMounts = []string{MountConvergence, MountGameState, MountVocabCompare, MountSelfRef}

// Axis is a fixed-range value axis.
type Axis struct {
	Label    string
	Min      float64
	Max      float64
	Position string // "left" or "right"
	HideGrid bool   // suppress split lines inside the plot area
}

// SeriesSpec declares one plotted series and the data key it is bound to.
type SeriesSpec struct {
	Label  string
	Key    string
	Color  string
	Dashed bool
	Smooth bool
	Axis   int // index into ChartSpec.Axes
}

// ChartSpec is the static configuration of one visualization.
type ChartSpec struct {
	Name   string
	Mount  string
	Title  string
	Kind   Kind
	XLabel string
	Axes   []Axis
	Legend string // legend placement: "bottom" or "top"
}

// Layout is the set of mount points present on the hosting page.
type Layout map[string]bool

// NewLayout builds a layout from mount ids.
func NewLayout(mounts ...string) Layout {
	l := make(Layout, len(mounts))
	for _, m := range mounts {
		l[m] = true
	}
	return l
}

// Has reports whether the page exposes the mount point.
func (l Layout) Has(mount string) bool {
	return l[mount]
}
