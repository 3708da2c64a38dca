package resonance

import (
	"math"

	"github.com/harmonia-labs/resonance/pkg/audio/harmonics"
)

// ReferenceSummary carries the reference-catalog resonance inputs into the
// aggregate score.
type ReferenceSummary struct {
	CosmicAlignment float64 `json:"cosmic_alignment"`
	StrongCount     int     `json:"strong_count"`
	Confidence      float64 `json:"confidence"`
}

// AggregateScore combines correlator matches, chart/music structural
// complexity and optional reference-catalog resonance into one bounded
// score. The function is pure: every intermediate quantity is a closed-form
// function of the arguments.
//
// With no matches at all the score is exactly 0.
func AggregateScore(matches []RatioMatch, chartComplexity int, analysis *harmonics.HarmonicAnalysis, ref *ReferenceSummary) float64 {
	if len(matches) == 0 {
		return 0
	}

	correlationScore := meanStrength(matches)

	strongCount := 0
	for _, m := range matches {
		if m.Strength > 0.7 {
			strongCount++
		}
	}
	strongBonus := math.Min(0.1*float64(strongCount), 0.3)

	complexityBonus := complexityMatch(chartComplexity, musicComplexity(analysis)) * 0.2

	base := clamp01(correlationScore*0.6 + strongBonus + complexityBonus)
	if ref == nil {
		return base
	}

	enhancement := (ref.CosmicAlignment*0.2 + math.Min(float64(ref.StrongCount)*0.05, 0.15)) * ref.Confidence
	return clamp01(base + enhancement)
}

// musicComplexity counts the harmonics above the significance floor.
func musicComplexity(analysis *harmonics.HarmonicAnalysis) int {
	if analysis == nil {
		return 0
	}
	count := 0
	for _, c := range analysis.Components {
		if c.Amplitude > 0.2 {
			count++
		}
	}
	return count
}

// complexityMatch measures how closely the chart's structural complexity
// matches the music's, in [0,1].
func complexityMatch(chartComplexity, musicComplexity int) float64 {
	denom := max(chartComplexity, musicComplexity, 1)
	return 1 - math.Abs(float64(chartComplexity-musicComplexity))/float64(denom)
}

func meanStrength(matches []RatioMatch) float64 {
	sum := 0.0
	for _, m := range matches {
		sum += m.Strength
	}
	return sum / float64(len(matches))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
