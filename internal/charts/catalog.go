package charts

import (
	"hash/fnv"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ziadkadry99/paradoxdash/internal/metrics"
)

// Chart names, in creation order.
const (
	ChartConvergence  = "convergence"
	ChartGameState    = "gamestate"
	ChartVocabCompare = "vocabCompare"
	ChartSelfRef      = "selfRef"
)

// Series colors.
const (
	ColorAlpha       = "rgb(30, 74, 122)"
	ColorBeta        = "rgb(107, 68, 16)"
	ColorConvergence = "rgb(138, 26, 26)"
	ColorDiversity   = "rgb(26, 107, 26)"
	ColorChaos       = "rgb(138, 107, 0)"
	ColorExposure    = "rgb(138, 26, 26)"
	ColorFaction     = "rgb(74, 26, 107)"
)

var agentColors = map[string]string{
	"alpha": ColorAlpha,
	"beta":  ColorBeta,
}

var fallbackPalette = []string{
	ColorDiversity,
	"rgb(0, 122, 122)",
	"rgb(160, 80, 140)",
	"rgb(90, 90, 90)",
	"rgb(200, 110, 30)",
}

// VocabCategories are the x-axis categories of the vocabulary comparison.
var VocabCategories = []string{"Vocabulary Diversity", "Unique Terms", "Astronomical Refs", "Sensory Terms"}

// definition binds a chart spec to the snapshot fields it displays.
type definition struct {
	spec ChartSpec
	// series lists the series the snapshot can populate, in display order.
	series func(s *metrics.Snapshot) []SeriesSpec
	labels func(s *metrics.Snapshot) []string
	// data resolves a series from the snapshot. prev is the data currently
	// shown for the series, nil for a new series.
	data func(s *metrics.Snapshot, spec SeriesSpec, prev []float64) ([]float64, bool)
}

func catalog() []definition {
	return []definition{
		{
			spec: ChartSpec{
				Name:   ChartConvergence,
				Mount:  MountConvergence,
				Title:  "Convergence & Diversity",
				Kind:   KindLine,
				XLabel: "Turn",
				Axes:   []Axis{{Label: "Score", Min: 0, Max: 1, Position: "left"}},
				Legend: "bottom",
			},
			series: func(s *metrics.Snapshot) []SeriesSpec {
				out := []SeriesSpec{{Label: "Convergence Index", Key: metrics.KeyConvergence, Color: ColorConvergence, Smooth: true}}
				for _, agent := range s.Agents(metrics.FamilyDiversity) {
					out = append(out, SeriesSpec{
						Label:  displayName(agent) + " Diversity",
						Key:    metrics.AgentKey(metrics.FamilyDiversity, agent),
						Color:  agentColor(agent),
						Dashed: true,
						Smooth: true,
					})
				}
				return out
			},
			labels: turnLabels,
			data:   seriesData,
		},
		{
			spec: ChartSpec{
				Name:   ChartGameState,
				Mount:  MountGameState,
				Title:  "Game State Dynamics",
				Kind:   KindLine,
				XLabel: "Turn",
				Axes: []Axis{
					{Label: "Chaos/Exposure (0-100)", Min: 0, Max: 100, Position: "left"},
					{Label: "Faction (-100 to +100)", Min: -100, Max: 100, Position: "right", HideGrid: true},
				},
				Legend: "bottom",
			},
			series: func(*metrics.Snapshot) []SeriesSpec {
				return []SeriesSpec{
					{Label: "Chaos", Key: metrics.KeyChaos, Color: ColorChaos, Smooth: true},
					{Label: "Exposure", Key: metrics.KeyExposure, Color: ColorExposure, Smooth: true},
					{Label: "Faction", Key: metrics.KeyFaction, Color: ColorFaction, Smooth: true, Axis: 1},
				}
			},
			labels: turnLabels,
			data:   seriesData,
		},
		{
			spec: ChartSpec{
				Name:   ChartVocabCompare,
				Mount:  MountVocabCompare,
				Title:  "Vocabulary Comparison",
				Kind:   KindBar,
				Axes:   []Axis{{Label: "Proportion", Min: 0, Max: 1, Position: "left"}},
				Legend: "bottom",
			},
			series: func(s *metrics.Snapshot) []SeriesSpec {
				var out []SeriesSpec
				for _, agent := range s.Agents(metrics.FamilyDiversity) {
					out = append(out, SeriesSpec{
						Label: displayName(agent),
						Key:   metrics.AgentKey(metrics.FamilyDiversity, agent),
						Color: agentColor(agent),
					})
				}
				return out
			},
			labels: func(*metrics.Snapshot) []string { return append([]string(nil), VocabCategories...) },
			data:   vocabData,
		},
		{
			spec: ChartSpec{
				Name:   ChartSelfRef,
				Mount:  MountSelfRef,
				Title:  "Self-Reference Rates",
				Kind:   KindLine,
				XLabel: "Turn",
				Axes:   []Axis{{Label: "Rate", Min: 0, Max: 0.2, Position: "left"}},
				Legend: "bottom",
			},
			series: func(s *metrics.Snapshot) []SeriesSpec {
				var out []SeriesSpec
				for _, agent := range s.Agents(metrics.FamilySelfRef) {
					out = append(out, SeriesSpec{
						Label:  displayName(agent) + " Self-Ref",
						Key:    metrics.AgentKey(metrics.FamilySelfRef, agent),
						Color:  agentColor(agent),
						Smooth: true,
					})
				}
				return out
			},
			labels: turnLabels,
			data:   seriesData,
		},
	}
}

func turnLabels(s *metrics.Snapshot) []string {
	out := make([]string, len(s.Turns))
	for i, t := range s.Turns {
		out[i] = strconv.Itoa(t)
	}
	return out
}

func seriesData(s *metrics.Snapshot, spec SeriesSpec, _ []float64) ([]float64, bool) {
	v, ok := s.Series(spec.Key)
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// vocabData yields [latest diversity, unique terms, astronomical refs,
// sensory terms]. Without a vocabulary profile for the agent the previous
// proportions stay on screen.
func vocabData(s *metrics.Snapshot, spec SeriesSpec, prev []float64) ([]float64, bool) {
	last, ok := s.Last(spec.Key)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(VocabCategories))
	out[0] = last
	_, agent := metrics.SplitKey(spec.Key)
	if p, ok := s.Vocabulary[agent]; ok {
		out[1], out[2], out[3] = p.UniqueTerms, p.AstronomicalRefs, p.SensoryTerms
	} else if len(prev) == len(out) {
		copy(out[1:], prev[1:])
	}
	return out, true
}

func agentColor(agent string) string {
	if c, ok := agentColors[agent]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(agent))
	return fallbackPalette[h.Sum32()%uint32(len(fallbackPalette))]
}

func displayName(agent string) string {
	r, size := utf8.DecodeRuneInString(agent)
	if r == utf8.RuneError {
		return agent
	}
	return string(unicode.ToUpper(r)) + agent[size:]
}
