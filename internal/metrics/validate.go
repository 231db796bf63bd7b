package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSnapshot is wrapped by every validation failure.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Value ranges of the bounded metrics.
var (
	ScoreRange   = Range{Min: 0, Max: 1}
	PercentRange = Range{Min: 0, Max: 100}
	SignedRange  = Range{Min: -100, Max: 100}
)

// Range is a closed numeric interval.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in the range and is finite.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// IsValid reports whether s satisfies every length and range invariant.
func IsValid(s *Snapshot) bool {
	return s.Validate() == nil
}

// Validate returns nil when the snapshot is structurally sound, otherwise an
// error describing the first violation.
func (s *Snapshot) Validate() error {
	if s == nil {
		return invalid("snapshot is nil")
	}
	n := len(s.Turns)
	if n == 0 {
		return invalid("turns is empty")
	}
	for i := 1; i < n; i++ {
		if s.Turns[i] <= s.Turns[i-1] {
			return invalid("turns not strictly increasing at index %d (%d after %d)", i, s.Turns[i], s.Turns[i-1])
		}
	}

	scalars := []struct {
		key string
		v   []float64
		r   Range
	}{
		{KeyConvergence, s.Convergence, ScoreRange},
		{KeyChaos, s.Chaos, PercentRange},
		{KeyExposure, s.Exposure, PercentRange},
		{KeyFaction, s.Faction, SignedRange},
	}
	for _, sc := range scalars {
		if err := checkSeries(sc.key, sc.v, n, sc.r); err != nil {
			return err
		}
	}

	for _, f := range []Family{FamilyDiversity, FamilySelfRef} {
		for _, agent := range s.Agents(f) {
			if agent == "" {
				return invalid("%s has an empty agent identifier", f)
			}
			v, _ := s.Series(AgentKey(f, agent))
			if err := checkSeries(AgentKey(f, agent), v, n, ScoreRange); err != nil {
				return err
			}
		}
	}

	for agent, p := range s.Vocabulary {
		if agent == "" {
			return invalid("vocabulary has an empty agent identifier")
		}
		for _, v := range []float64{p.UniqueTerms, p.AstronomicalRefs, p.SensoryTerms} {
			if !ScoreRange.Contains(v) {
				return invalid("vocabulary.%s value %v outside [0,1]", agent, v)
			}
		}
	}
	return nil
}

func checkSeries(key string, v []float64, n int, r Range) error {
	if len(v) != n {
		return invalid("%s has %d points, want %d", key, len(v), n)
	}
	for i, x := range v {
		if !r.Contains(x) {
			return invalid("%s[%d] = %v outside [%g,%g]", key, i, x, r.Min, r.Max)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}
