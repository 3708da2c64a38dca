package resonance

import (
	"fmt"
	"math"
	"sort"

	"github.com/harmonia-labs/resonance/pkg/astro"
	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

// MatchClass categorizes how a target ratio lined up with a harmonic
type MatchClass string

const (
	MatchExact     MatchClass = "exact"
	MatchOvertone  MatchClass = "overtone"
	MatchUndertone MatchClass = "undertone"
	MatchComposite MatchClass = "composite"
)

// RatioMatch is one tolerance-bounded hit between a symbolic target ratio
// and an extracted harmonic component.
type RatioMatch struct {
	Target      astro.TargetRatio           `json:"target"`
	Component   harmonics.HarmonicComponent `json:"component"`
	Strength    float64                     `json:"strength"`
	Class       MatchClass                  `json:"classification"`
	Explanation string                      `json:"explanation"`
}

// Correlate scans every (target, component) pair for tolerance-bounded
// ratio matches and returns them ranked by descending strength. Equal
// strengths keep their pair-discovery order. The result is capped at
// cfg.MaxMatchesPerItem.
//
// Correlate is total over well-formed input; a malformed analysis (negative
// amplitude, ratio below 1) is a programming-contract violation and panics.
func Correlate(targets []astro.TargetRatio, analysis *harmonics.HarmonicAnalysis, cfg MatchConfig) []RatioMatch {
	if analysis == nil {
		panic("resonance: nil analysis")
	}
	validateComponents(analysis.Components)

	matches := make([]RatioMatch, 0, len(targets))
	for _, target := range targets {
		for _, component := range analysis.Components {
			diff := math.Abs(target.Ratio - component.Ratio)
			if diff > cfg.ToleranceThreshold {
				continue
			}

			strength := (1 - diff/cfg.ToleranceThreshold) * component.Amplitude
			if cfg.WeightByImportance {
				strength *= astro.ImportanceWeight(target.Quality)
			}
			if strength < cfg.MinStrength {
				continue
			}

			matches = append(matches, RatioMatch{
				Target:      target,
				Component:   component,
				Strength:    strength,
				Class:       classify(diff, component.Index),
				Explanation: explainMatch(target, component, diff),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Strength > matches[j].Strength
	})

	if cfg.MaxMatchesPerItem > 0 && len(matches) > cfg.MaxMatchesPerItem {
		matches = matches[:cfg.MaxMatchesPerItem]
	}
	return matches
}

// classify buckets a match by ratio closeness and harmonic register: exact
// hits first, then low overtones, composite high partials, undertone for
// the middle register.
func classify(diff float64, index int) MatchClass {
	switch {
	case diff < 0.01:
		return MatchExact
	case index <= 4:
		return MatchOvertone
	case index > 8:
		return MatchComposite
	default:
		return MatchUndertone
	}
}

func explainMatch(target astro.TargetRatio, component harmonics.HarmonicComponent, diff float64) string {
	return fmt.Sprintf("%s (%s, %s) resonates with harmonic %d at ratio %.3f (Δ%.3f)",
		target.Name, target.Label, target.IntervalName, component.Index, component.Ratio, diff)
}

// validateComponents fails fast on contract violations instead of silently
// clamping.
func validateComponents(components []harmonics.HarmonicComponent) {
	for _, c := range components {
		if c.Amplitude < 0 || c.Amplitude > 1 || math.IsNaN(c.Amplitude) {
			panic(fmt.Sprintf("resonance: component %d amplitude out of range: %v", c.Index, c.Amplitude))
		}
		if c.Ratio < 1 || math.IsNaN(c.Ratio) {
			panic(fmt.Sprintf("resonance: component %d ratio below 1: %v", c.Index, c.Ratio))
		}
		if c.Index < 1 {
			panic(fmt.Sprintf("resonance: component index below 1: %d", c.Index))
		}
	}
}
