package metrics

// sample is the bundled snapshot shown until live metrics load.
var sample = Snapshot{
	Turns:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	Convergence: []float64{0.58, 0.55, 0.52, 0.48, 0.45, 0.42, 0.40, 0.38, 0.36, 0.35, 0.34, 0.34, 0.34, 0.34, 0.34},
	Diversity: map[string][]float64{
		"alpha": {0.72, 0.72, 0.73, 0.73, 0.74, 0.74, 0.74, 0.75, 0.75, 0.75, 0.76, 0.76, 0.76, 0.76, 0.76},
		"beta":  {0.68, 0.69, 0.69, 0.70, 0.70, 0.71, 0.71, 0.71, 0.72, 0.72, 0.72, 0.73, 0.73, 0.73, 0.73},
	},
	Chaos:    []float64{0, 18, 15, 12, 18, 21, 18, 21, 18, 15, 18, 15, 12, 15, 18},
	Exposure: []float64{0, 8, 11, 11, 14, 14, 17, 18, 18, 18, 21, 21, 21, 21, 20},
	Faction:  []float64{0, -2, -4, -8, -6, -4, -2, 0, 2, 4, 6, 3, 0, 3, 0},
	SelfRef: map[string][]float64{
		"alpha": {0.08, 0.08, 0.07, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08, 0.08},
		"beta":  {0.10, 0.11, 0.11, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12, 0.12},
	},
	Vocabulary: map[string]VocabularyProfile{
		"alpha": {UniqueTerms: 0.45, AstronomicalRefs: 0.85, SensoryTerms: 0.15},
		"beta":  {UniqueTerms: 0.52, AstronomicalRefs: 0.10, SensoryTerms: 0.80},
	},
}

// Sample returns a fresh copy of the bundled sample snapshot.
func Sample() *Snapshot {
	return sample.Clone()
}
