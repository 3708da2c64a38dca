package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

// ReferenceResonance is one reference body's resonance with a track
type ReferenceResonance struct {
	Name               string    `json:"name"`
	Strength           float64   `json:"strength"`
	MatchedFrequencies []float64 `json:"matched_frequencies"`
	BestHarmonicIndex  int       `json:"best_harmonic_index"`
	Explanation        string    `json:"explanation"`
}

// CrossRelationship is a canonical-interval ratio between two resonant
// reference bodies.
type CrossRelationship struct {
	Ratio    float64   `json:"ratio"`
	Involved [2]string `json:"involved"`
	Label    string    `json:"label"`
}

// MatchResult is the full reference-catalog resonance picture for one track
type MatchResult struct {
	Resonances         []ReferenceResonance `json:"resonances"`
	Dominant           string               `json:"dominant,omitempty"`
	CosmicAlignment    float64              `json:"cosmic_alignment"`
	CrossRelationships []CrossRelationship  `json:"cross_relationships"`
}

// canonicalIntervals is the fixed table cross-body ratios are classified
// against. Ratios farther than crossRatioTolerance from every entry are
// dropped.
var canonicalIntervals = []struct {
	ratio float64
	label string
}{
	{2.0, "octave"},
	{1.5, "fifth"},
	{1.333, "fourth"},
	{1.618, "golden ratio"},
	{1.25, "major third"},
	{1.2, "minor third"},
}

const (
	frequencyTolerance  = 0.02 // relative frequency distance for a match
	crossRatioTolerance = 0.05
	minResonance        = 0.1
	simulatedDrawCount  = 3
)

// Matcher correlates extracted harmonics against the reference catalog. It
// is stateless beyond the injected catalog and safe for concurrent use.
type Matcher struct {
	catalog *Catalog
	logger  logging.Logger
}

// NewMatcher creates a reference matcher over the given catalog.
func NewMatcher(cat *Catalog, logger logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Matcher{catalog: cat, logger: logger}
}

// Match scans every catalog entry's harmonic series against the analysis
// components and aggregates per-body resonances, the overall cosmic
// alignment, and cross-body interval relationships.
//
// A simulated-tier analysis still gets a structurally valid, low-confidence
// result drawn from a bounded catalog subset instead of an empty one.
func (m *Matcher) Match(analysis *harmonics.HarmonicAnalysis) *MatchResult {
	if analysis == nil || analysis.Source == harmonics.SourceSimulated {
		return m.simulatedResult(analysis)
	}

	resonances := make([]ReferenceResonance, 0, m.catalog.Len())
	for _, entry := range m.catalog.entries {
		if resonance, ok := m.matchEntry(entry, analysis); ok {
			resonances = append(resonances, resonance)
		}
	}

	sort.SliceStable(resonances, func(i, j int) bool {
		return resonances[i].Strength > resonances[j].Strength
	})

	result := &MatchResult{
		Resonances:         resonances,
		CosmicAlignment:    m.cosmicAlignment(resonances, analysis.Confidence),
		CrossRelationships: m.crossRelationships(resonances),
	}
	if len(resonances) > 0 {
		result.Dominant = resonances[0].Name
	}

	m.logger.Debug("Reference catalog matched", logging.Fields{
		"resonant_bodies":  len(resonances),
		"dominant":         result.Dominant,
		"cosmic_alignment": result.CosmicAlignment,
		"cross_intervals":  len(result.CrossRelationships),
	})

	return result
}

// matchEntry accumulates tolerance-bounded matches between one body's
// harmonic series and the extracted components. The body resonates when its
// mean matched strength clears the floor.
func (m *Matcher) matchEntry(entry ReferenceEntry, analysis *harmonics.HarmonicAnalysis) (ReferenceResonance, bool) {
	var (
		strengths    []float64
		matchedFreqs []float64
		bestIndex    int
		bestStrength float64
	)

	for _, refFreq := range entry.HarmonicSeries {
		for _, component := range analysis.Components {
			relDiff := math.Abs(component.FrequencyHz-refFreq) / refFreq
			if relDiff > frequencyTolerance {
				continue
			}

			strength := (1 - relDiff/frequencyTolerance) * component.Amplitude
			strengths = append(strengths, strength)
			matchedFreqs = append(matchedFreqs, component.FrequencyHz)
			if strength > bestStrength {
				bestStrength = strength
				bestIndex = component.Index
			}
		}
	}

	if len(strengths) == 0 {
		return ReferenceResonance{}, false
	}

	sum := 0.0
	for _, s := range strengths {
		sum += s
	}
	mean := sum / float64(len(strengths))
	if mean <= minResonance {
		return ReferenceResonance{}, false
	}

	return ReferenceResonance{
		Name:               entry.Name,
		Strength:           mean,
		MatchedFrequencies: matchedFreqs,
		BestHarmonicIndex:  bestIndex,
		Explanation: fmt.Sprintf("%s (%s, %.2f Hz) resonates through harmonic %d (strength %.2f)",
			entry.Name, entry.NearestNote, entry.BaseFrequency, bestIndex, mean),
	}, true
}

// cosmicAlignment folds the emitted resonances into one bounded score,
// scaled by the analysis confidence.
func (m *Matcher) cosmicAlignment(resonances []ReferenceResonance, confidence float64) float64 {
	if len(resonances) == 0 {
		return 0
	}

	sum := 0.0
	strongCount := 0
	for _, r := range resonances {
		sum += r.Strength
		if r.Strength > 0.6 {
			strongCount++
		}
	}
	mean := sum / float64(len(resonances))

	countBonus := math.Min(0.05*float64(len(resonances)), 0.3)
	strongBonus := 0.1 * float64(strongCount)

	return clamp01((mean + countBonus + strongBonus) * confidence)
}

// crossRelationships classifies the frequency ratio between every pair of
// resonant bodies against the canonical interval table. Ratios that land on
// no canonical interval are dropped.
func (m *Matcher) crossRelationships(resonances []ReferenceResonance) []CrossRelationship {
	relationships := make([]CrossRelationship, 0)

	for i := 0; i < len(resonances); i++ {
		for j := i + 1; j < len(resonances); j++ {
			a, b := resonances[i], resonances[j]
			if len(a.MatchedFrequencies) == 0 || len(b.MatchedFrequencies) == 0 {
				continue
			}

			ratio := a.MatchedFrequencies[0] / b.MatchedFrequencies[0]
			if ratio < 1 {
				ratio = 1 / ratio
			}

			if label, ok := classifyInterval(ratio); ok {
				relationships = append(relationships, CrossRelationship{
					Ratio:    ratio,
					Involved: [2]string{a.Name, b.Name},
					Label:    label,
				})
			}
		}
	}

	return relationships
}

func classifyInterval(ratio float64) (string, bool) {
	for _, interval := range canonicalIntervals {
		if math.Abs(ratio-interval.ratio) <= crossRatioTolerance {
			return interval.label, true
		}
	}
	return "", false
}

// simulatedResult draws a small deterministic subset of the catalog so a
// track with no real audio evidence still yields a structurally valid
// result. The subset and strengths are seeded from the fundamental.
func (m *Matcher) simulatedResult(analysis *harmonics.HarmonicAnalysis) *MatchResult {
	confidence := 0.2
	seed := 0
	if analysis != nil {
		confidence = analysis.Confidence
		seed = int(analysis.FundamentalHz)
	}

	count := min(simulatedDrawCount, m.catalog.Len())
	resonances := make([]ReferenceResonance, 0, count)
	for i := range count {
		entry := m.catalog.entries[(seed+i)%m.catalog.Len()]
		strength := 0.3 - 0.05*float64(i)
		resonances = append(resonances, ReferenceResonance{
			Name:               entry.Name,
			Strength:           strength,
			MatchedFrequencies: []float64{entry.BaseFrequency},
			BestHarmonicIndex:  1,
			Explanation: fmt.Sprintf("%s drawn from catalog (no audio evidence, strength %.2f)",
				entry.Name, strength),
		})
	}

	result := &MatchResult{
		Resonances:         resonances,
		CosmicAlignment:    m.cosmicAlignment(resonances, confidence),
		CrossRelationships: m.crossRelationships(resonances),
	}
	if len(resonances) > 0 {
		result.Dominant = resonances[0].Name
	}
	return result
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
