// Package metrics defines the metrics snapshot exchanged between the loader
// and the chart registry.
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Family names a per-agent series group.
type Family string

const (
	FamilyDiversity Family = "diversity"
	FamilySelfRef   Family = "selfRef"
)

// Scalar data keys for the series that are not per-agent.
const (
	KeyConvergence = "convergence"
	KeyChaos       = "chaos"
	KeyExposure    = "exposure"
	KeyFaction     = "faction"
)

// VocabularyProfile holds the per-agent vocabulary proportions shown in the
// comparison chart next to the latest diversity score.
type VocabularyProfile struct {
	UniqueTerms      float64 `json:"uniqueTerms"`
	AstronomicalRefs float64 `json:"astronomicalRefs"`
	SensoryTerms     float64 `json:"sensoryTerms"`
}

// Snapshot is one complete, internally consistent set of time-aligned metric
// series. A snapshot is not modified after construction.
type Snapshot struct {
	Turns       []int                        `json:"turns"`
	Convergence []float64                    `json:"convergence"`
	Diversity   map[string][]float64         `json:"diversity"`
	Chaos       []float64                    `json:"chaos"`
	Exposure    []float64                    `json:"exposure"`
	Faction     []float64                    `json:"faction"`
	SelfRef     map[string][]float64         `json:"selfRef"`
	Vocabulary  map[string]VocabularyProfile `json:"vocabulary,omitempty"`
}

// AgentKey returns the data key of an agent's series within a family,
// e.g. "diversity.alpha".
func AgentKey(f Family, agent string) string {
	return string(f) + "." + agent
}

// SplitKey splits a data key into its family and agent parts. Scalar keys
// return an empty agent.
func SplitKey(key string) (Family, string) {
	family, agent, ok := strings.Cut(key, ".")
	if !ok {
		return "", ""
	}
	return Family(family), agent
}

// Series returns the series bound to a data key.
func (s *Snapshot) Series(key string) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	switch key {
	case KeyConvergence:
		return s.Convergence, s.Convergence != nil
	case KeyChaos:
		return s.Chaos, s.Chaos != nil
	case KeyExposure:
		return s.Exposure, s.Exposure != nil
	case KeyFaction:
		return s.Faction, s.Faction != nil
	}
	family, agent := SplitKey(key)
	if agent == "" {
		return nil, false
	}
	set := s.family(family)
	if set == nil {
		return nil, false
	}
	v, ok := set[agent]
	return v, ok
}

// Agents returns the sorted agent identifiers of a family.
func (s *Snapshot) Agents(f Family) []string {
	set := s.family(f)
	agents := make([]string, 0, len(set))
	for a := range set {
		agents = append(agents, a)
	}
	sort.Strings(agents)
	return agents
}

// Last returns the final value of a series, or false when the key is unbound
// or the series is empty.
func (s *Snapshot) Last(key string) (float64, bool) {
	v, ok := s.Series(key)
	if !ok || len(v) == 0 {
		return 0, false
	}
	return v[len(v)-1], true
}

func (s *Snapshot) family(f Family) map[string][]float64 {
	if s == nil {
		return nil
	}
	switch f {
	case FamilyDiversity:
		return s.Diversity
	case FamilySelfRef:
		return s.SelfRef
	}
	return nil
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := &Snapshot{
		Turns:       append([]int(nil), s.Turns...),
		Convergence: cloneFloats(s.Convergence),
		Diversity:   cloneFamily(s.Diversity),
		Chaos:       cloneFloats(s.Chaos),
		Exposure:    cloneFloats(s.Exposure),
		Faction:     cloneFloats(s.Faction),
		SelfRef:     cloneFamily(s.SelfRef),
	}
	if s.Vocabulary != nil {
		c.Vocabulary = make(map[string]VocabularyProfile, len(s.Vocabulary))
		for k, v := range s.Vocabulary {
			c.Vocabulary[k] = v
		}
	}
	return c
}

// Decode parses a JSON snapshot and validates it. A document that fails
// validation is never returned.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("decoding snapshot: unexpected data after document")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}

func cloneFamily(m map[string][]float64) map[string][]float64 {
	if m == nil {
		return nil
	}
	c := make(map[string][]float64, len(m))
	for k, v := range m {
		c[k] = cloneFloats(v)
	}
	return c
}
